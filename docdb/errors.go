package docdb

import (
	stderrors "errors"
	"fmt"

	"github.com/pingcap/errors"
)

// CorruptionError wraps a decode failure: an undecodable key or
// value, or a value whose type does not match the schema. Fatal for
// the iterator; never retried (spec.md §7).
type CorruptionError struct {
	cause error
}

func newCorruptionError(format string, args ...interface{}) error {
	return &CorruptionError{cause: errors.Errorf(format, args...)}
}

func wrapCorruption(cause error) error {
	if cause == nil {
		return nil
	}
	return &CorruptionError{cause: errors.WithStack(cause)}
}

func (e *CorruptionError) Error() string { return "docdb: corruption: " + e.cause.Error() }
func (e *CorruptionError) Unwrap() error { return e.cause }

// RetryError signals that a provisional write's transaction status
// was PENDING or UNKNOWN at a time that would affect the current row.
// The caller is expected to retry the read later (spec.md §4.3, §7).
// The iterator's position is invalid once this error has been
// returned; the iterator must not be reused.
type RetryError struct {
	TxnID     string
	SeenAt    HybridTimestamp
	causeKind string
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("docdb: try again: intent from txn %s is %s as of %s", e.TxnID, e.causeKind, e.SeenAt)
}

// CancelledError signals that the read context's cancellation token
// fired or its deadline passed. Terminal (spec.md §7).
type CancelledError struct {
	cause error
}

func (e *CancelledError) Error() string {
	if e.cause != nil {
		return "docdb: cancelled: " + e.cause.Error()
	}
	return "docdb: cancelled"
}
func (e *CancelledError) Unwrap() error { return e.cause }

// ExhaustedError is returned by NextRow when HasNext has already
// reported false. Recoverable at the API level: it reflects a caller
// bug, not a data problem (spec.md §7).
type ExhaustedError struct{}

func (e *ExhaustedError) Error() string { return "docdb: iterator exhausted" }

// IOError wraps a failure surfaced by the underlying ordered store.
// Terminal (spec.md §7).
type IOError struct {
	cause error
}

func wrapIOError(cause error) error {
	if cause == nil {
		return nil
	}
	return &IOError{cause: errors.WithStack(cause)}
}

func (e *IOError) Error() string { return "docdb: io error: " + e.cause.Error() }
func (e *IOError) Unwrap() error { return e.cause }

// IsRetry reports whether err is (or wraps) a RetryError.
func IsRetry(err error) bool {
	var target *RetryError
	return stderrors.As(err, &target)
}

// IsExhausted reports whether err is (or wraps) an ExhaustedError.
func IsExhausted(err error) bool {
	var target *ExhaustedError
	return stderrors.As(err, &target)
}

// IsCorruption reports whether err is (or wraps) a CorruptionError.
func IsCorruption(err error) bool {
	var target *CorruptionError
	return stderrors.As(err, &target)
}

// IsCancelled reports whether err is (or wraps) a CancelledError.
func IsCancelled(err error) bool {
	var target *CancelledError
	return stderrors.As(err, &target)
}
