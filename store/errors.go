package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the outcomes callers branch on. Filesystem-level
// failures are returned wrapped with %w instead of being translated.
var (
	// ErrNotFound reports a missing ledger path or a transaction
	// identity that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrExists reports a conflicting create: the file or account is
	// already present.
	ErrExists = errors.New("already exists")
)

// ValidationError reports malformed caller input (a bad date, an
// invalid account name). It aborts the operation before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
