package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ── PostgreSQL TEXT[] custom type ──

// StringArray maps a PostgreSQL TEXT[] column and implements the GORM
// Scanner/Valuer interfaces.
type StringArray []string

// Scan parses the {a,b,c} text returned by PostgreSQL into []string.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = StringArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(StringArray, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" || p == "NULL" {
			continue
		}
		arr = append(arr, p)
	}
	*a = arr
	return nil
}

// Value serialises []string into PostgreSQL {a,b,c} text.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, s := range a {
		parts[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains reports whether id is present in the array.
func (a StringArray) Contains(id string) bool {
	for _, s := range a {
		if s == id {
			return true
		}
	}
	return false
}

// BaseModel audit fields embedded by every persisted model
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VersionedModel adds an optimistic-lock version column
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}
