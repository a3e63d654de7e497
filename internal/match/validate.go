package match

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkStruct runs tag validation over an inbound payload and flattens any
// field errors into a single ValidationError.
func checkStruct(rule string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(ve))
		for _, fe := range ve {
			parts = append(parts, fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
		}
		return &ValidationError{Rule: rule, Message: strings.Join(parts, "; ")}
	}
	return &ValidationError{Rule: rule, Message: err.Error()}
}
