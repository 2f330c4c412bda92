package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/go-user-insights/internal/query"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

// legacyRecord accepts every user shape that upstream producers have
// emitted: flat camelCase, snake_case columns, nested car/phone/address
// objects and a single "name" field.
type legacyRecord struct {
	FirstName       string          `json:"firstName"`
	FirstNameSnake  string          `json:"first_name"`
	LastName        string          `json:"lastName"`
	LastNameSnake   string          `json:"last_name"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Gender          string          `json:"gender"`
	Income          *float64        `json:"income"`
	CarBrand        string          `json:"carBrand"`
	Car             json.RawMessage `json:"car"`
	PhonePrice      *float64        `json:"phonePrice"`
	PhonePriceSnake *float64        `json:"phone_price"`
	Phone           *struct {
		Price *float64 `json:"price"`
	} `json:"phone"`
	Quote   string `json:"quote"`
	City    string `json:"city"`
	Address *struct {
		City string `json:"city"`
	} `json:"address"`
}

// DecodeRecords reads a JSON array of users in any known shape, maps each
// entry to the canonical schema and validates the result.
func DecodeRecords(r io.Reader) ([]types.UserRecord, error) {
	var raw []legacyRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return nil, &types.InputError{Index: -1, Reason: "expected a JSON array of user records"}
		}
		if errors.Is(err, io.EOF) {
			return nil, &types.InputError{Index: -1, Reason: "body must not be empty"}
		}
		return nil, fmt.Errorf("%w: decoding user records: %v", types.ErrInvalidInput, err)
	}
	if raw == nil {
		return nil, &types.InputError{Index: -1, Reason: "expected a JSON array of user records"}
	}

	records := make([]types.UserRecord, 0, len(raw))
	for i, lr := range raw {
		rec, err := lr.canonical(i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := query.Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (lr legacyRecord) canonical(index int) (types.UserRecord, error) {
	if lr.Income == nil {
		return types.UserRecord{}, &types.InputError{Index: index, Field: "income", Reason: "is required"}
	}

	brand, err := carBrand(lr.CarBrand, lr.Car)
	if err != nil {
		return types.UserRecord{}, &types.InputError{Index: index, Field: "car", Reason: err.Error()}
	}

	first := firstNonEmpty(lr.FirstName, lr.FirstNameSnake)
	last := firstNonEmpty(lr.LastName, lr.LastNameSnake)
	if first == "" && last == "" && lr.Name != "" {
		first, last = splitName(lr.Name)
	}

	city := lr.City
	if city == "" && lr.Address != nil {
		city = lr.Address.City
	}

	var phonePrice float64
	switch {
	case lr.PhonePrice != nil:
		phonePrice = *lr.PhonePrice
	case lr.PhonePriceSnake != nil:
		phonePrice = *lr.PhonePriceSnake
	case lr.Phone != nil && lr.Phone.Price != nil:
		phonePrice = *lr.Phone.Price
	}

	return types.UserRecord{
		FirstName:  strings.TrimSpace(first),
		LastName:   strings.TrimSpace(last),
		Email:      strings.TrimSpace(lr.Email),
		Gender:     types.ParseGender(lr.Gender),
		Income:     *lr.Income,
		CarBrand:   strings.TrimSpace(brand),
		PhonePrice: phonePrice,
		Quote:      lr.Quote,
		City:       strings.TrimSpace(city),
	}, nil
}

// carBrand resolves the brand from a flat carBrand field, a "car" string or
// a {"brand": ...} object, in that order.
func carBrand(flat string, car json.RawMessage) (string, error) {
	if flat != "" {
		return flat, nil
	}
	car = bytes.TrimSpace(car)
	if len(car) == 0 || bytes.Equal(car, []byte("null")) {
		return "", nil
	}
	switch car[0] {
	case '"':
		var s string
		if err := json.Unmarshal(car, &s); err != nil {
			return "", fmt.Errorf("must be a string or an object with a brand")
		}
		return s, nil
	case '{':
		var obj struct {
			Brand string `json:"brand"`
		}
		if err := json.Unmarshal(car, &obj); err != nil {
			return "", fmt.Errorf("must be a string or an object with a brand")
		}
		return obj.Brand, nil
	default:
		return "", fmt.Errorf("must be a string or an object with a brand")
	}
}

// splitName splits a full name on its first space: the first word is the
// first name and the remainder the last name. A single word is treated as
// the last name.
func splitName(name string) (string, string) {
	first, rest, found := strings.Cut(strings.TrimSpace(name), " ")
	if !found {
		return "", first
	}
	return first, strings.TrimSpace(rest)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
