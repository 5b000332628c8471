package accountservice

import (
	"errors"
	"fmt"
)

// Authentication outcomes. The order of checks in Authenticate is fixed:
// existence, lock, inactive, credential. Each failure is observably
// distinct to the operator.
var (
	ErrNotFound          = errors.New("no account with that handle")
	ErrAccountLocked     = errors.New("account is locked")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrInvalidCredential = errors.New("invalid credential")
)

// ValidationError reports bad or missing input on account creation. The
// caller is expected to prompt and retry, not abort.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
