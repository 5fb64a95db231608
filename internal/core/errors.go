package core

// errors.go defines the typed failure taxonomy for the pipeline.
//
// Every stage fails with an *Error carrying an ErrorKind, so callers can
// branch on the category without string matching, and the web layer can map
// each kind to an HTTP status. No stage returns a partial result alongside
// an error.

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of a pipeline failure.
type ErrorKind int

const (
	// KindUnsupportedFormat: the file extension is neither CSV nor Excel.
	KindUnsupportedFormat ErrorKind = iota

	// KindParse: the underlying CSV/Excel parse failed.
	KindParse

	// KindEmptyResult: no data rows survived loading and null-row removal.
	KindEmptyResult

	// KindMissingColumn: a required column is absent or has the wrong class.
	KindMissingColumn

	// KindInvalidRange: a requested axis range is empty after clamping.
	KindInvalidRange

	// KindNoNumericColumns: an axis was requested but the table has no
	// numeric column to back it.
	KindNoNumericColumns

	// KindDatasetNotFound: no dataset with the given ID (expired or deleted).
	KindDatasetNotFound

	// KindTooManyDatasets: the dataset registry is at capacity.
	KindTooManyDatasets
)

// String returns a stable name for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindParse:
		return "parse_error"
	case KindEmptyResult:
		return "empty_result"
	case KindMissingColumn:
		return "missing_column"
	case KindInvalidRange:
		return "invalid_range"
	case KindNoNumericColumns:
		return "no_numeric_columns"
	case KindDatasetNotFound:
		return "dataset_not_found"
	case KindTooManyDatasets:
		return "too_many_datasets"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure with a category and a human-readable message.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a typed error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr creates a typed error wrapping an underlying cause.
func WrapErr(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from err.
// Returns false if err is not a pipeline error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a pipeline error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
