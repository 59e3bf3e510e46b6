package forms

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gumanista/hate-2-action/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their form name so errors line up with inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("key", isKey)
	return v
}

// isKey accepts the decimal form of a positive int64 record key.
func isKey(fl validator.FieldLevel) bool {
	id, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil && id > 0
}

// fieldMessages overrides the generic message for one field and rule.
var fieldMessages = map[string]string{
	"response_style.required": "Please select a response style",
	"response_style.oneof":    "Please select a response style",
	"organization_id.key":     "Please select a valid organization",
	"project_id.key":          "Please select a valid project",
	"problem_id.key":          "Please select a valid problem",
}

var ruleMessages = map[string]string{
	"http_url": "Please enter a valid URL, including http:// or https://",
	"email":    "Please enter a valid email address",
	"key":      "Please select a valid option",
}

// Validate runs the struct rules and returns a *errors.ValidationError keyed
// by form field, or nil.
func Validate(form any) error {
	verr := errors.NewValidationError()
	if err := validate.Struct(form); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			field := fieldName(fe)
			verr.Add(field, message(field, fe.Tag()))
		}
	}
	return verr.OrNil()
}

// fieldName strips the slice index validator adds for dive rules,
// e.g. "project_ids[1]".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func message(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := ruleMessages[tag]; ok {
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, label(field))
		}
		return msg
	}
	if tag == "required" {
		return label(field) + " is required"
	}
	return fmt.Sprintf("%s is invalid", label(field))
}

// label turns "contact_email" into "Contact email".
func label(field string) string {
	words := strings.ReplaceAll(field, "_", " ")
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}
