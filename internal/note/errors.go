package note

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no note has the requested id.
var ErrNotFound = errors.New("note not found")

// ValidationError reports a missing or empty required field. Field is empty
// when the failing field is unknown, e.g. when the error came over the wire.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
