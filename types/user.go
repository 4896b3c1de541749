package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// User is the entity browsed by the consoles.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Telephone    string    `json:"telephone"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Active       bool      `json:"active"`
	TypeUser     UserTypes `json:"typeUser"`
	DateCreation Timestamp `json:"dateCreation"`
}

// CreateUser is the payload sent to POST <collection>. TypeUser is the single
// value shape the backend expects.
type CreateUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Active    bool   `json:"active"`
	TypeUser  string `json:"typeUser"`
	Telephone string `json:"telephone"`
}

// UserStats mirrors GET <collection>/stats.
type UserStats struct {
	Total            int            `json:"total"`
	Active           int            `json:"active"`
	Inactive         int            `json:"inactive"`
	ActivePercentage float64        `json:"activePercentage"`
	Today            int            `json:"today"`
	ThisWeek         int            `json:"thisWeek"`
	ThisMonth        int            `json:"thisMonth"`
	Breakdown        map[string]int `json:"breakdown"`
}

// UserTypes accepts both a JSON array and a single string, the backend has
// sent both shapes over time.
type UserTypes []string

func (u *UserTypes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*u = nil
			return nil
		}
		*u = UserTypes{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("typeUser: %w", err)
	}
	*u = many
	return nil
}

// First returns the first type or an empty string.
func (u UserTypes) First() string {
	if len(u) == 0 {
		return ""
	}
	return u[0]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes backend dates with or without a zone offset.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// AsTime exposes the wrapped time to renderers that only know time.Time.
func (t Timestamp) AsTime() time.Time {
	return t.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
