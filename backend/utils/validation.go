package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/kitchen/config"
)

var (
	// Letters, digits and @/./+/-/_ only.
	ValidUsernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the HTML field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return ValidUsernameRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "notnumeric", func(fl validator.FieldLevel) bool {
		return !isAllDigits(fl.Field().String())
	})
	mustRegister(v, "integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "experience", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= config.MinYearsOfExperience && n <= config.MaxYearsOfExperience
	})
	mustRegister(v, "decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	mustRegister(v, "decimalplaces", func(fl validator.FieldLevel) bool {
		_, decimals, ok := decimalShape(fl.Field().String())
		return ok && decimals <= config.PriceDecimalPlaces
	})
	mustRegister(v, "maxdigits", func(fl validator.FieldLevel) bool {
		digits, _, ok := decimalShape(fl.Field().String())
		return ok && digits <= config.PriceMaxDigits
	})
	mustRegister(v, "wholedigits", func(fl validator.FieldLevel) bool {
		digits, decimals, ok := decimalShape(fl.Field().String())
		return ok && digits-decimals <= config.PriceMaxDigits-config.PriceDecimalPlaces
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// decimalShape returns the significant digit count and the number of digits after the point.
func decimalShape(raw string) (digits, decimals int, ok bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, 0, false
	}
	coefficient := strings.TrimPrefix(d.Coefficient().String(), "-")
	exp := int(d.Exponent())

	if exp >= 0 {
		if coefficient == "0" {
			return 1, 0, true
		}
		return len(coefficient) + exp, 0, true
	}
	decimals = -exp
	if decimals > len(coefficient) {
		return decimals, decimals, true
	}
	return len(coefficient), decimals, true
}

// ValidateForm runs the struct tags on form and collects messages per field.
func ValidateForm(form interface{}) models.FormErrors {
	errs := models.FormErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(models.NonFieldErrors, err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		field := fieldName(fe)
		errs.Add(field, messageFor(fe))
	}
	return errs
}

// fieldName drops the element index from slice fields ("cooks[1]" -> "cooks").
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func messageFor(fe validator.FieldError) string {
	value := fmt.Sprint(fe.Value())

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(value))
	case "min":
		return fmt.Sprintf("This password is too short. It must contain at least %s characters.", fe.Param())
	case "notnumeric":
		return "This password is entirely numeric."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "integer":
		if strings.Contains(fe.Namespace(), "[") {
			return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value)
		}
		return "Enter a whole number."
	case "experience":
		if n, _ := strconv.Atoi(value); n < config.MinYearsOfExperience {
			return fmt.Sprintf("Ensure this value is greater than or equal to %d.", config.MinYearsOfExperience)
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %d.", config.MaxYearsOfExperience)
	case "decimal":
		return "Enter a number."
	case "nonnegative":
		return "Ensure this value is greater than or equal to 0."
	case "decimalplaces":
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", config.PriceDecimalPlaces)
	case "maxdigits":
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", config.PriceMaxDigits)
	case "wholedigits":
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", config.PriceMaxDigits-config.PriceDecimalPlaces)
	default:
		return fmt.Sprintf("Invalid value for %s.", fieldName(fe))
	}
}
