package transaction

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when removing an id that is not in the ledger.
var ErrNotFound = errors.New("transaction not found")

// ValidationError rejects a mutation because of bad input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
