package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxErrorMessageLength caps error messages in log fields.
const MaxErrorMessageLength = 1000

// SanitizeString removes control characters, enforces valid UTF-8, and
// truncates to maxLength. Prevents log injection from service responses.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()
	if maxLength > 0 && len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizeError sanitizes an error message for safe logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}
