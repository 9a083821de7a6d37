package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/license-backend/internal/app/model"
)

// MinimumAge is the youngest an individual applicant may be.
const MinimumAge = 18

var (
	validate *validator.Validate

	phoneCharset = regexp.MustCompile(`^[\d\s()\-+]+$`)
	pinCode      = regexp.MustCompile(`^\d{6}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("pincode", validatePinCode)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// ValidateStruct runs the struct tags of s.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Errors maps a JSON field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Merge copies other into e.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// FieldErrors converts the result of ValidateStruct into Errors.
// Errors that are not validator errors are reported under "body".
func FieldErrors(err error) Errors {
	out := Errors{}
	if err == nil {
		return out
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		out.Add("body", err.Error())
		return out
	}
	for _, e := range validationErrs {
		out.Add(e.Field(), message(e))
	}
	return out
}

func message(e validator.FieldError) string {
	label := model.FieldLabel(e.Field())
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email format"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, e.Param())
	case "phone":
		return "Invalid phone number format"
	case "pincode":
		return "Invalid PIN code format (use 6 digits, e.g., 110001)"
	case "oneof":
		return label + " is not a supported value"
	default:
		return label + " is invalid"
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

func validatePinCode(fl validator.FieldLevel) bool {
	return IsPinCode(fl.Field().String())
}

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsPhone accepts digits, spaces, parentheses, dashes and plus signs with at least 10 digits.
func IsPhone(s string) bool {
	if !phoneCharset.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

// IsPinCode reports whether s is exactly six digits.
func IsPinCode(s string) bool {
	return pinCode.MatchString(s)
}

// IsAdult reports whether someone born on dob is at least MinimumAge at now.
func IsAdult(dob, now time.Time) bool {
	return !dob.After(now.AddDate(-MinimumAge, 0, 0))
}
