package kiohash

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine errors. Only KindConfig and KindInput are
// ever returned to callers; the other kinds describe degradations that the
// engine recovers from locally and reports through the logger and metrics.
type ErrorKind uint8

const (
	KindConfig ErrorKind = iota + 1
	KindInput
	KindResource
	KindAcceleration
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInput:
		return "input"
	case KindResource:
		return "resource"
	case KindAcceleration:
		return "acceleration"
	default:
		return "unknown"
	}
}

var (
	ErrZeroHashFunctions = errors.New("number of hash functions must be positive")
	ErrUnknownAlgorithm  = errors.New("unknown hash algorithm")
	ErrInvalidConfig     = errors.New("invalid engine configuration")
	ErrSignatureLength   = errors.New("signature lengths differ or are zero")
	ErrUnsupportedValue  = errors.New("value has no hashable encoding")
	ErrCacheUnavailable  = errors.New("hash cache unavailable")
	ErrWorkersExhausted  = errors.New("worker pool exhausted")
)

// Error carries the operation and kind of a failure.
type Error struct {
	Op    string
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kiohash %s (%s): %v", e.Op, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(op string, kind ErrorKind, cause error) *Error {
	return &Error{
		Op:    op,
		Kind:  kind,
		Cause: cause,
	}
}

func configError(op string, cause error) *Error { return newError(op, KindConfig, cause) }
func inputError(op string, cause error) *Error  { return newError(op, KindInput, cause) }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConfigError reports whether err is a configuration mistake.
func IsConfigError(err error) bool { return KindOf(err) == KindConfig }

// IsInputError reports whether err was caused by invalid call arguments.
func IsInputError(err error) bool { return KindOf(err) == KindInput }
