package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validate is a shared validator instance.
var Validate *validator.Validate

func init() {
	Validate = validator.New()
}

// Error is a client-side precondition failure. When an operation returns a
// validation Error, no request was sent to the service.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf creates a validation Error.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a client-side precondition
// failure rather than a transport or service error.
func IsValidationError(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

// SanitizeText trims whitespace and removes control characters except
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
