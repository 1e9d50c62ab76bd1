package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and maps the first failure to a
// 400 AppError with a field-level message (no internals leaked).
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return NewValidationError(fmt.Sprintf("field '%s' failed on '%s' validation", first.Field(), first.Tag()))
		}
		return NewValidationError("invalid request body")
	}
	return nil
}
