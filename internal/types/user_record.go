package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// --- ENUM Types ---

// Gender represents the DB ENUM 'gender_enum'.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other" // Also used when the source leaves it unspecified
)

// ParseGender normalises a raw gender value. Matching is case-insensitive;
// empty or unrecognised values map to GenderOther.
func ParseGender(raw string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderOther
	}
}

// Valid reports whether g is one of the known enum values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for Gender.
func (g *Gender) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan Gender: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	*g = ParseGender(strVal)
	return nil
}

// Value implements the driver.Valuer interface for Gender.
func (g Gender) Value() (driver.Value, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid Gender value: %s", g)
	}
	return string(g), nil
}

// UserRecord is the canonical shape of a user as seen by the query engine.
// Records carry no identity beyond their position in the input.
type UserRecord struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName" validate:"required"`
	Email      string  `json:"email" validate:"required"`
	Gender     Gender  `json:"gender" validate:"required,oneof=male female other"`
	Income     float64 `json:"income" validate:"gte=0"`
	CarBrand   string  `json:"carBrand"`
	PhonePrice float64 `json:"phonePrice" validate:"gte=0"`
	Quote      string  `json:"quote"`
	City       string  `json:"city" validate:"required"`
}

// CityAggregate summarises the users of one city within a result set.
type CityAggregate struct {
	City          string  `json:"city"`
	Count         int     `json:"count"`
	AverageIncome float64 `json:"averageIncome"`
}
