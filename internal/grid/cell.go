package grid

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

const (
	Placeholder   = "-"
	ActiveLabel   = "Actif"
	InactiveLabel = "Inactif"
	DateLayout    = "02/01/2006 15:04"
)

type CellKind int

const (
	KindText CellKind = iota
	KindMuted
	KindBadge
	KindPlaceholder
	KindSkeleton
)

func (k CellKind) String() string {
	switch k {
	case KindMuted:
		return "muted"
	case KindBadge:
		return "badge"
	case KindPlaceholder:
		return "placeholder"
	case KindSkeleton:
		return "skeleton"
	}
	return "text"
}

type Badge struct {
	Text    string
	Variant string
}

// Cell is a neutral display value. Hosts map Kind and Variant to their own styling.
type Cell struct {
	Text    string
	Kind    CellKind
	Variant string
	Badges  []Badge
	Mono    bool
}

func Text(s string) Cell {
	if s == "" {
		return Cell{Text: Placeholder, Kind: KindPlaceholder}
	}
	return Cell{Text: s}
}

func Muted(s string) Cell {
	return Cell{Text: s, Kind: KindMuted}
}

func BadgeCell(text, variant string) Cell {
	return Cell{Text: text, Kind: KindBadge, Variant: variant, Badges: []Badge{{Text: text, Variant: variant}}}
}

// Badges renders several badges in one cell; the joined text is kept for
// hosts without badge support.
func Badges(badges ...Badge) Cell {
	if len(badges) == 0 {
		return Text("")
	}
	texts := make([]string, len(badges))
	for i, b := range badges {
		texts[i] = b.Text
	}
	return Cell{Text: strings.Join(texts, ", "), Kind: KindBadge, Variant: badges[0].Variant, Badges: badges}
}

type timeValue interface {
	AsTime() time.Time
}

// DefaultCell renders a value by its shape.
func DefaultCell(value any, loc *time.Location) Cell {
	if isNil(value) {
		return Text("")
	}

	switch v := value.(type) {
	case bool:
		if v {
			return BadgeCell(ActiveLabel, "default")
		}
		return BadgeCell(InactiveLabel, "secondary")
	case time.Time:
		return formatTime(v, loc)
	case *time.Time:
		return formatTime(*v, loc)
	case timeValue:
		return formatTime(v.AsTime(), loc)
	case string:
		if strings.Contains(v, "@") {
			return Muted(v)
		}
		return Text(v)
	case []string:
		return Text(strings.Join(v, ", "))
	case fmt.Stringer:
		return Text(v.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return DefaultCell(rv.Elem().Interface(), loc)
	case reflect.Slice:
		if rv.Len() == 0 {
			return Text("")
		}
		if rv.Type().Elem().Kind() == reflect.String {
			parts := make([]string, rv.Len())
			for i := range parts {
				parts[i] = rv.Index(i).String()
			}
			return Text(strings.Join(parts, ", "))
		}
	}
	return Text(fmt.Sprint(value))
}

// isNil also catches typed nil pointers, whose methods may not be callable.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func formatTime(t time.Time, loc *time.Location) Cell {
	if t.IsZero() {
		return Text("")
	}
	if loc != nil {
		t = t.In(loc)
	}
	return Text(t.Format(DateLayout))
}

// Lookup finds key on a struct (by json tag, then field name) or a map with
// string keys. It reports false when the key is absent.
func Lookup(item any, key string) (any, bool) {
	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == key {
				return rv.Field(i).Interface(), true
			}
		}
		if f, ok := t.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, key) }); ok && f.IsExported() {
			// a promoted field behind a nil embedded pointer is absent
			v, err := rv.FieldByIndexErr(f.Index)
			if err != nil || !v.CanInterface() {
				return nil, false
			}
			return v.Interface(), true
		}
	}
	return nil, false
}
