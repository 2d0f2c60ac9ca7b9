// Package form validates form records before anything is sent to the
// backend. Failures come back per field, in the wording the form shows
// under each input.
package form

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)
)

// Errors maps a struct field name to its message.
type Errors map[string]string

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Error joins every message, for logs.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// Validator wraps go-playground/validator with the form rules.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the phone, imageurl and agerange rules
// registered.
func New() *Validator {
	v := validator.New()
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}))
	must(v.RegisterValidation("agerange", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0 && n <= 150
	}))
	return &Validator{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Check validates a form struct. It returns nil when the form is valid.
func (fv *Validator) Check(form any) Errors {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"": err.Error()}
	}
	out := make(Errors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldError(fe)
		}
	}
	return out
}

// labels are the human names of form fields.
var labels = map[string]string{
	"IDNumber":        "ID Number",
	"ID":              "ID",
	"PatientID":       "Patient ID",
	"FollowUpDate":    "Follow-up date",
	"Specializations": "Specialization",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// fieldError converts a single FieldError into the message shown under the
// input.
func fieldError(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is invalid"
	case "len":
		if fe.Field() == "IDNumber" {
			return field + " must be exactly " + fe.Param() + " digits"
		}
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "number":
		if fe.Field() == "IDNumber" {
			return field + " must be exactly 4 digits"
		}
		return field + " must be a number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "phone":
		return "Invalid phone number format"
	case "agerange":
		return "Age must be a valid number between 0 and 150"
	case "imageurl":
		return "Profile picture must be a valid image URL"
	case "datetime":
		return fmt.Sprintf("%s must be a date like %s", field, "2025-01-31")
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
