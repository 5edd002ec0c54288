package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidSex is wrapped by every error raised for a value outside the enumeration
var ErrInvalidSex = errors.New("invalid sex")

// Sex is the closed enumeration stored in patients.sex
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// SexValues returns every valid Sex in declaration order
func SexValues() []string {
	return []string{string(SexMale), string(SexFemale)}
}

// ParseSex converts a literal into a Sex, rejecting anything outside the enumeration
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of male, female", ErrInvalidSex, s)
	}
}

// Valid reports whether s is a member of the enumeration
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale:
		return true
	default:
		return false
	}
}

// Value implements driver.Valuer
func (s Sex) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w %q: must be one of male, female", ErrInvalidSex, string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner
func (s *Sex) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Sex", src)
	}

	parsed, err := ParseSex(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s Sex) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidSex, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Sex) UnmarshalText(text []byte) error {
	parsed, err := ParseSex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
