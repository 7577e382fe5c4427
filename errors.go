package blacklab

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind distinguishes the five error taxonomies of the core (§7).
// A given error value is never mistaken for another kind: FormatError is
// never treated as an I/O error, CancellationError is never treated as a
// format error, and so on.
type ErrorKind string

const (
	KindFormat        ErrorKind = "format"
	KindConfiguration ErrorKind = "configuration"
	KindQuery         ErrorKind = "query"
	KindIO            ErrorKind = "io"
	KindCancellation  ErrorKind = "cancellation"
)

// FormatError reports a corrupt or unrecognized on-disk segment file:
// header/footer/checksum mismatch, delegate-name mismatch, unknown codec
// tag, or a corrupted offset. It is fatal for the containing segment.
type FormatError struct {
	File       string
	Reason     string
	Underlying error
}

func NewFormatError(file, reason string, err error) *FormatError {
	return &FormatError{File: file, Reason: reason, Underlying: err}
}

func (e *FormatError) Kind() ErrorKind { return KindFormat }

func (e *FormatError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("format error in %s: %s: %v", e.File, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("format error in %s: %s", e.File, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Underlying }

// ConfigurationError reports an unknown sensitivity, unknown field, or an
// impossible rewrite constraint discovered before query execution starts.
type ConfigurationError struct {
	Field      string
	Reason     string
	Underlying error
}

func NewConfigurationError(field, reason string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason, Underlying: err}
}

func (e *ConfigurationError) Kind() ErrorKind { return KindConfiguration }

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error for %q: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Underlying }

// QueryError reports a malformed rewrite request: noEmpty() demanded of a
// node that only matches the empty sequence, negation without a bounded
// universe, and similar domain-level query failures (§4.4 "Failure
// semantics").
type QueryError struct {
	Node   string
	Reason string
}

func NewQueryError(node, reason string) *QueryError {
	return &QueryError{Node: node, Reason: reason}
}

func (e *QueryError) Kind() ErrorKind { return KindQuery }

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error in %s: %s", e.Node, e.Reason)
}

// CancellationError is the distinct error kind for an operation stopped by
// cancellation, separate from I/O and format errors (§7). orchestrator.Run
// does not construct it: when it observes a cancelled context between
// iterator calls it returns the context's own error (context.Canceled or
// context.DeadlineExceeded).
type CancellationError struct {
	Operation string
	At        time.Time
}

func NewCancellationError(operation string) *CancellationError {
	return &CancellationError{Operation: operation, At: time.Now()}
}

func (e *CancellationError) Kind() ErrorKind { return KindCancellation }

func (e *CancellationError) Error() string {
	return fmt.Sprintf("%s: cancelled", e.Operation)
}

// IsCancellation reports whether err (or something it wraps) is a
// CancellationError.
func IsCancellation(err error) bool {
	var ce *CancellationError
	return errors.As(err, &ce)
}
