package insights

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

type format string

const (
	formatJSON  format = "json"
	formatTable format = "table"
	formatHTML  format = "html"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// paramParser reads query string values over defaults and collects every
// malformed value instead of stopping at the first.
type paramParser struct {
	values  url.Values
	details []types.FieldError
}

func newParamParser(values url.Values) *paramParser {
	return &paramParser{values: values}
}

func (p *paramParser) list(key string, def []string) []string {
	raw, ok := p.lookup(key)
	if !ok {
		return def
	}
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (p *paramParser) number(key string, def float64) float64 {
	raw, ok := p.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, "must be a number", "number")
		return def
	}
	return v
}

func (p *paramParser) integer(key string, def int) int {
	raw, ok := p.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "must be an integer", "numeric")
		return def
	}
	return v
}

// text keeps an explicitly empty value, so prefix= matches every last name.
func (p *paramParser) text(key, def string) string {
	if _, present := p.values[key]; !present {
		return def
	}
	return strings.TrimSpace(p.values.Get(key))
}

func (p *paramParser) outputFormat() format {
	raw, ok := p.lookup("format")
	if !ok {
		return formatJSON
	}
	switch f := format(strings.ToLower(raw)); f {
	case formatJSON, formatTable, formatHTML:
		return f
	default:
		p.fail("format", "must be one of: json table html", "oneof")
		return formatJSON
	}
}

func (p *paramParser) lookup(key string) (string, bool) {
	raw := strings.TrimSpace(p.values.Get(key))
	return raw, raw != ""
}

func (p *paramParser) fail(field, message, tag string) {
	p.details = append(p.details, types.FieldError{Field: field, Message: message, Type: tag})
}

// validateParams runs struct validation on params and merges the result with
// the parse failures collected so far. A nil params only reports parse failures.
func (p *paramParser) validateParams(params any) error {
	details := p.details
	if params == nil {
		return paramsError(details)
	}
	if err := validate.Struct(params); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating parameters: %w", err)
		}
		for _, fe := range fieldErrs {
			details = append(details, types.FieldError{
				Field:   fieldName(fe),
				Message: fieldMessage(fe),
				Type:    fe.Tag(),
			})
		}
	}
	return paramsError(details)
}

// ValidateDefaults checks configured query defaults once at startup.
func ValidateDefaults(defaults types.QueryDefaults) error {
	return newParamParser(nil).validateParams(defaults)
}

func paramsError(details []types.FieldError) error {
	if len(details) > 0 {
		return &types.ParamsError{Details: details}
	}
	return nil
}

// fieldName drops the struct prefix and any slice index, "cars[0]" → "cars".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must contain at least " + fe.Param() + " value(s)"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
