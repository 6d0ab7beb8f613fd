package note

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// noteValidate is shared by every Input. Field names in errors come from the
// json tags so they match what API clients send.
var noteValidate *validator.Validate

func init() {
	noteValidate = validator.New(validator.WithRequiredStructEnabled())
	noteValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := noteValidate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic("note: register notblank validation: " + err.Error())
	}
}

// validateNotBlank rejects strings that are empty after trimming whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Input is the writable part of a note, as sent on create and update.
type Input struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// Validate returns a *ValidationError naming the first empty field.
func (in Input) Validate() error {
	err := noteValidate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Reason: "must not be empty"}
	}
	return err
}
