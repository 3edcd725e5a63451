package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report field names from json tags so errors match the API payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStruct validates a struct against its `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	return validate
}
