package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an operation against a source location failed.
type ErrorKind int

const (
	// KindNotFound means the remote repository does not exist.
	KindNotFound ErrorKind = iota + 1
	// KindRetriable covers transport failures: auth, network, timeout, output limit.
	KindRetriable
	// KindFatal needs operator intervention: missing tool, bad configuration, size limit.
	KindFatal
	// KindLocalIO covers local disk problems: manifest parsing, copy, cleanup.
	KindLocalIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindRetriable:
		return "retriable"
	case KindFatal:
		return "fatal"
	case KindLocalIO:
		return "local i/o"
	default:
		return "unknown"
	}
}

// SourceError is the error type surfaced by every operation. Message has
// already been stripped of credentials and scratch paths when Redacted is
// true, and Err never carries raw subprocess output.
type SourceError struct {
	Kind     ErrorKind
	Stage    Stage
	Message  string
	Redacted bool
	Err      error
}

func (e *SourceError) Error() string {
	if e.Stage == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Retriable reports whether the caller may retry the operation as is.
func (e *SourceError) Retriable() bool { return e.Kind == KindRetriable }

// NewSourceError builds a SourceError. The message must already be redacted.
func NewSourceError(kind ErrorKind, stage Stage, err error, format string, args ...any) *SourceError {
	return &SourceError{
		Kind:     kind,
		Stage:    stage,
		Message:  fmt.Sprintf(format, args...),
		Redacted: true,
		Err:      err,
	}
}

// KindOf returns the kind of the first SourceError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return sourceErr.Kind
	}
	return 0
}

// IsRetriable reports whether err is a retriable SourceError.
func IsRetriable(err error) bool { return KindOf(err) == KindRetriable }

// IsNotFound reports whether err is a not-found SourceError.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
