package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that reports fields by their JSON names
// and understands the "decimal" and "compounding" tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil function.
	_ = v.RegisterValidation("decimal", isDecimal)
	_ = v.RegisterValidation("compounding", isCompounding)
	return v
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isCompounding(fl validator.FieldLevel) bool {
	_, err := loanterm.ParseCompoundingPeriod(fl.Field().String())
	return err == nil
}

// Describe turns a validation failure into a message suitable for the
// form. Other errors are returned as their text.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeField(fe))
	}
	return strings.Join(messages, "; ")
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "decimal":
		return fmt.Sprintf("%s must be a decimal number", fe.Field())
	case "compounding":
		return fmt.Sprintf("%s must be one of monthly, semi-annually, annually", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
