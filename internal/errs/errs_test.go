package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"
)

func TestIsRetryable_Transient(t *testing.T) {
	err := fmt.Errorf("fetch GEN 1: %w", &TransientError{Op: "fetch", StatusCode: 503, Err: errors.New("unavailable")})
	if !IsRetryable(err) {
		t.Error("expected wrapped TransientError to be retryable")
	}
}

func TestIsRetryable_TooManyOpenFiles(t *testing.T) {
	err := &fs.PathError{Op: "open", Path: "trans/gwt/GEN.1.gwt", Err: syscall.EMFILE}
	if !IsRetryable(err) {
		t.Error("expected EMFILE to be retryable")
	}
	if !IsResourceExhausted(fmt.Errorf("read: %w", &fs.PathError{Op: "open", Err: syscall.ENFILE})) {
		t.Error("expected ENFILE to count as resource exhaustion")
	}
}

func TestIsRetryable_Fatal(t *testing.T) {
	cases := []error{
		os.ErrNotExist,
		&MissingInputError{What: "dictionary", Path: "words", Err: os.ErrNotExist},
		&CorruptCacheError{Path: "wordlist", Err: errors.New("bad json")},
	}
	for _, err := range cases {
		if IsRetryable(err) {
			t.Errorf("expected %v to be fatal", err)
		}
	}
}

func TestClassification_Distinct(t *testing.T) {
	missing := fmt.Errorf("load: %w", &MissingInputError{What: "dictionary", Path: "words"})
	corrupt := fmt.Errorf("load: %w", &CorruptCacheError{Path: "wordlist", Err: errors.New("eof")})

	if !IsMissing(missing) || IsCorrupt(missing) {
		t.Errorf("missing input misclassified: %v", missing)
	}
	if !IsCorrupt(corrupt) || IsMissing(corrupt) {
		t.Errorf("corrupt cache misclassified: %v", corrupt)
	}
}

func TestTransientError_Message(t *testing.T) {
	err := &TransientError{Op: "fetch GEN.1", StatusCode: 429, Err: errors.New("slow down")}
	want := "transient error during fetch GEN.1 (status 429): slow down"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
