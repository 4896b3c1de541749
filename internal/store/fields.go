package store

import (
	"math"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/state"
)

const DefaultSortColumn = "date_creation"

// sortColumns whitelists sortable JSON fields and maps them to columns.
var sortColumns = map[string]string{
	"dateCreation": "date_creation",
	"username":     "username",
	"email":        "email",
	"firstName":    "first_name",
	"lastName":     "last_name",
	"telephone":    "telephone",
	"typeUser":     "type_user",
	"active":       "active",
}

// SortColumn maps a sort field to its column; unknown fields sort by creation date.
func SortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return DefaultSortColumn
}

// SortField is the inverse of SortColumn.
func SortField(field string) string {
	if _, ok := sortColumns[field]; ok {
		return field
	}
	return "dateCreation"
}

var updatableColumns = map[string]string{
	"username":  "username",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"telephone": "telephone",
	"active":    "active",
	"typeUser":  "type_user",
}

// FieldError reports a patch value of the wrong type.
type FieldError struct {
	Field string
	Want  string
}

func (e *FieldError) Error() string {
	return e.Field + " must be " + e.Want
}

// Assignment is one column update.
type Assignment struct {
	Field  string
	Column string
	Value  any
}

// NormalizePatch keeps known fields, checks their types and flattens
// typeUser to a single value. Assignments come out in a stable order.
func NormalizePatch(patch map[string]any) ([]Assignment, error) {
	fields := []string{"username", "email", "firstName", "lastName", "telephone", "active", "typeUser"}
	var out []Assignment
	for _, field := range fields {
		raw, ok := patch[field]
		if !ok || raw == nil {
			continue
		}
		var value any
		switch field {
		case "active":
			b, ok := raw.(bool)
			if !ok {
				return nil, &FieldError{Field: "active", Want: "a boolean"}
			}
			value = b
		case "typeUser":
			v, err := normalizeType(raw)
			if err != nil {
				return nil, err
			}
			if v == "" {
				continue
			}
			value = v
		default:
			s, ok := raw.(string)
			if !ok {
				return nil, &FieldError{Field: field, Want: "a string"}
			}
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			value = s
		}
		out = append(out, Assignment{Field: field, Column: updatableColumns[field], Value: value})
	}
	if len(out) == 0 {
		return nil, ErrEmptyUpdate
	}
	return out, nil
}

func normalizeType(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return strings.ToUpper(strings.TrimSpace(v)), nil
	case []any:
		if len(v) == 0 {
			return "", nil
		}
		s, ok := v[0].(string)
		if !ok {
			return "", &FieldError{Field: "typeUser", Want: "a string or a list of strings"}
		}
		return strings.ToUpper(strings.TrimSpace(s)), nil
	case []string:
		if len(v) == 0 {
			return "", nil
		}
		return strings.ToUpper(strings.TrimSpace(v[0])), nil
	}
	return "", &FieldError{Field: "typeUser", Want: "a string or a list of strings"}
}

// NormalizeType returns the stored value for a user type, defaulting to customer.
func NormalizeType(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return string(state.TypeCustomer)
	}
	return raw
}

// StatusFilter translates the status parameter; ok is false when it does not filter.
func StatusFilter(status string) (active bool, ok bool) {
	s, ok := state.ParseStatus(status)
	if !ok {
		return false, false
	}
	return s.Active(), true
}

// StatsWindows returns the start of the day, the ISO week and the month containing now.
func StatsWindows(now time.Time) (day, week, month time.Time) {
	y, m, d := now.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	offset := (int(day.Weekday()) + 6) % 7
	week = day.AddDate(0, 0, -offset)
	month = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return day, week, month
}

// Percentage of part in total, rounded to one decimal.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
