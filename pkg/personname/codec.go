package personname

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
)

var (
	_ encoding.TextMarshaler   = PersonName{}
	_ encoding.TextUnmarshaler = (*PersonName)(nil)
	_ driver.Valuer            = PersonName{}
	_ sql.Scanner              = (*PersonName)(nil)
)

// MarshalText emits the canonical form. The zero value marshals to empty text.
func (n PersonName) MarshalText() ([]byte, error) {
	return []byte(n.canonical), nil
}

// UnmarshalText parses text with the same rules as Parse.
func (n *PersonName) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Value stores the canonical form; the zero value is stored as NULL.
func (n PersonName) Value() (driver.Value, error) {
	if n.IsZero() {
		return nil, nil
	}
	return n.canonical, nil
}

// Scan reads a name stored by Value. NULL scans into the zero value.
func (n *PersonName) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = PersonName{}
		return nil
	case string:
		return n.UnmarshalText([]byte(v))
	case []byte:
		return n.UnmarshalText(v)
	default:
		return fmt.Errorf("personname: cannot scan %T", src)
	}
}
