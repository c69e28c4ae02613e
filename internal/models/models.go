package models

import (
	"database/sql/driver"
	"strings"

	"github.com/google/uuid"
)

// StringArray is a custom type for PostgreSQL text[] that implements Scanner and Valuer.
// It also round-trips through plain TEXT columns, which keeps the sqlite driver usable
// for local development and fast tests.
type StringArray []string

// Scan implements the sql.Scanner interface for reading from the database
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if bytes, ok := value.([]byte); ok {
			str = string(bytes)
		} else {
			*a = nil
			return nil
		}
	}

	str = strings.TrimPrefix(str, "{")
	str = strings.TrimSuffix(str, "}")

	if str == "" {
		*a = []string{}
		return nil
	}

	// Split by comma (simple case - doesn't handle quoted values with commas)
	*a = strings.Split(str, ",")
	return nil
}

// Value implements the driver.Valuer interface for writing to the database
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if len(a) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// ensureID fills in a uuid primary key. Ids are generated client-side so the
// schema carries no database-specific default.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
