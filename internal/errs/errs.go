// Package errs defines the error taxonomy shared by the corpus, cache and
// pipeline packages.
package errs

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrNotFound reports that a cached artifact does not exist yet.
// Callers treat it as "build from scratch", never as a failure.
var ErrNotFound = errors.New("cache artifact not found")

// TransientError is a failure that is worth retrying: resource exhaustion,
// a non-success HTTP status or a transport error.
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient error during %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient error during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MissingInputError reports a required input that is absent, such as the
// dictionary source or a chapter document when fetching is disabled.
type MissingInputError struct {
	What string
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing %s: %s", e.What, e.Path)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// CorruptCacheError reports a cached artifact that exists but cannot be parsed.
type CorruptCacheError struct {
	Path string
	Err  error
}

func (e *CorruptCacheError) Error() string {
	return fmt.Sprintf("corrupt cache artifact %s: %v", e.Path, e.Err)
}

func (e *CorruptCacheError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	return IsResourceExhausted(err)
}

// IsResourceExhausted reports "too many open files" conditions.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE)
}

// IsMissing reports whether err is a MissingInputError.
func IsMissing(err error) bool {
	var missing *MissingInputError
	return errors.As(err, &missing)
}

// IsCorrupt reports whether err is a CorruptCacheError.
func IsCorrupt(err error) bool {
	var corrupt *CorruptCacheError
	return errors.As(err, &corrupt)
}
