package types

import (
	"time"

	"github.com/google/uuid"
)

// QueryName identifies one of the insight queries. Used for routes, span
// names, metric attributes and the scope of a top-cities aggregate.
type QueryName string

const (
	QueryIncomeAndCar         QueryName = "income-car"
	QueryGenderAndPhonePrice  QueryName = "gender-phone"
	QueryNameQuoteEmail       QueryName = "name-quote-email"
	QueryCarAndDigitFreeEmail QueryName = "car-digit-free-email"
	QueryTopCities            QueryName = "top-cities"
	QueryReport               QueryName = "report"
)

// Predicate reports whether q names one of the four record filters.
func (q QueryName) Predicate() bool {
	switch q {
	case QueryIncomeAndCar, QueryGenderAndPhonePrice, QueryNameQuoteEmail, QueryCarAndDigitFreeEmail:
		return true
	default:
		return false
	}
}

type IncomeAndCarParams struct {
	Cars      []string `json:"cars" validate:"required,min=1,dive,required"`
	MaxIncome float64  `json:"max_income" validate:"gte=0"`
}

type GenderAndPhonePriceParams struct {
	Gender        Gender  `json:"gender" validate:"required,oneof=male female other"`
	MinPhonePrice float64 `json:"min_phone_price" validate:"gte=0"`
}

type NameQuoteEmailParams struct {
	Prefix         string `json:"prefix"`
	MinQuoteLength int    `json:"min_quote_length" validate:"gte=0"`
}

type CarAndDigitFreeEmailParams struct {
	Cars []string `json:"cars" validate:"required,min=1,dive,required"`
}

// TopCitiesParams configures the city aggregate. When Scope names a
// predicate query, the aggregate runs over that query's result only.
type TopCitiesParams struct {
	Limit int       `json:"limit" validate:"gte=0,lte=1000"`
	Scope QueryName `json:"scope,omitempty" validate:"omitempty,oneof=income-car gender-phone name-quote-email car-digit-free-email"`
}

// QueryDefaults holds the parameters used when a request omits them and
// the full parameter set of a report.
type QueryDefaults struct {
	IncomeAndCar         IncomeAndCarParams
	GenderAndPhonePrice  GenderAndPhonePriceParams
	NameQuoteEmail       NameQuoteEmailParams
	CarAndDigitFreeEmail CarAndDigitFreeEmailParams
	TopCities            TopCitiesParams
}

// Report bundles the five queries, each computed independently over the
// same record snapshot.
type Report struct {
	ID                   uuid.UUID       `json:"id"`
	GeneratedAt          time.Time       `json:"generated_at"`
	Source               string          `json:"source"`
	TotalUsers           int             `json:"total_users"`
	IncomeAndCar         []UserRecord    `json:"income_car"`
	GenderAndPhonePrice  []UserRecord    `json:"gender_phone"`
	NameQuoteEmail       []UserRecord    `json:"name_quote_email"`
	CarAndDigitFreeEmail []UserRecord    `json:"car_digit_free_email"`
	TopCities            []CityAggregate `json:"top_cities"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}
