package query

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

var validate = validator.New()

// Validate checks records at the loading boundary and returns an
// *types.InputError for the first record that breaks a field rule.
func Validate(users []types.UserRecord) error {
	if users == nil {
		return &types.InputError{Index: -1, Reason: "record list is missing"}
	}
	for i := range users {
		err := validate.Struct(users[i])
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &types.InputError{
				Index:  i,
				Field:  lowerFirst(fe.Field()),
				Reason: reason(fe),
			}
		}
		return &types.InputError{Index: i, Reason: err.Error()}
	}
	return nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
