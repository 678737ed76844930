package debug

import (
	"errors"
	"fmt"
)

// InvariantError reports a violated protocol invariant. It indicates a bug in
// the caller and must be treated as unrecoverable, see [Halt].
type InvariantError struct {
	Subsystem string
	Err       error
}

func (e *InvariantError) Error() string {
	return e.Subsystem + ": " + e.Err.Error()
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Invariant wraps err into an *InvariantError for subsystem.
func Invariant(subsystem string, err error) error {
	return &InvariantError{Subsystem: subsystem, Err: err}
}

// IsInvariant reports whether err or any error it wraps is an
// *InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// Halt stops the program with a readable description of err if it is not nil.
// Unlike [Assert] it's never compiled out.
func Halt(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("invariant violated: %v", err))
}
