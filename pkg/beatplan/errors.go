package beatplan

import (
	"strconv"
	"strings"
)

// ValidationError captures a single field-level validation problem in an
// analysis document.
type ValidationError struct {
	Field   string
	Index   int // beat index for per-beat problems, -1 otherwise
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{e.Field}
	if e.Index >= 0 {
		parts = append(parts, "beat "+strconv.Itoa(e.Index))
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, " ")
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}
