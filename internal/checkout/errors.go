package checkout

import "fmt"

// ValidationError is recovered locally: the form stays open, the message is
// shown inline, nothing is written anywhere.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
