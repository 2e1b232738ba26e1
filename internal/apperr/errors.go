package apperr

import (
	"errors"
	"fmt"
)

// Kind partitions failures by how the run reacts to them.
type Kind int

const (
	// KindPrecondition aborts the run before any record is processed
	// (credential refresh, initial schema fetch).
	KindPrecondition Kind = iota
	// KindRecord is recoverable: logged, counted, batch continues.
	KindRecord
	// KindThreshold signals run-level failure after the full batch was
	// attempted and too many records failed.
	KindThreshold
	// KindSubsystem marks an optional path (Daily Summary, Athlete Metrics)
	// that failed without affecting the primary reconciliation outcome.
	KindSubsystem
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Precondition(code, message string, cause error) *Error {
	return &Error{Kind: KindPrecondition, Code: code, Message: message, Cause: cause}
}

func Record(code, message string, cause error) *Error {
	return &Error{Kind: KindRecord, Code: code, Message: message, Cause: cause}
}

func Subsystem(code, message string, cause error) *Error {
	return &Error{Kind: KindSubsystem, Code: code, Message: message, Cause: cause}
}

func ThresholdExceeded(failed, total int, threshold float64) *Error {
	return &Error{
		Kind: KindThreshold,
		Code: "failure_threshold",
		Message: fmt.Sprintf(
			"%d of %d records failed, exceeding the %.0f%% threshold",
			failed, total, threshold*100,
		),
	}
}

func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsKind(err error, kind Kind) bool {
	appErr := AsError(err)
	return appErr != nil && appErr.Kind == kind
}
