package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the input directory does not exist.
	ErrInputNotFound = errors.New("input directory not found")

	// ErrNotDirectory is returned when the input path is not a directory.
	ErrNotDirectory = errors.New("input path is not a directory")

	// ErrEmptyData marks a CSV file with no content. The loader skips it.
	ErrEmptyData = errors.New("no columns to parse from file")

	// ErrMalformedCSV marks a CSV file that has content but cannot be parsed.
	ErrMalformedCSV = errors.New("malformed csv")

	// ErrInvalidUTF8 marks input bytes that are not valid UTF-8. The loader
	// reports it wrapped in ErrMalformedCSV.
	ErrInvalidUTF8 = errors.New("invalid utf-8")

	// ErrNoData is returned when no file produced a table.
	ErrNoData = errors.New("no objects to concatenate")

	// ErrMissingColumn is returned when a dedup key column is absent.
	ErrMissingColumn = errors.New("missing key column")
)

// Stage names a pipeline step.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageLoad     Stage = "load"
	StageConcat   Stage = "concat"
	StageDedup    Stage = "dedup"
	StageExport   Stage = "export"
)

// ErrorKind classifies a failure for the run log.
type ErrorKind string

const (
	KindInputNotFound        ErrorKind = "InputNotFound"
	KindFileParseEmpty       ErrorKind = "FileParseEmpty"
	KindFileParseOther       ErrorKind = "FileParseOther"
	KindNoDataFound          ErrorKind = "NoDataFound"
	KindDiscoveryFailure     ErrorKind = "DiscoveryFailure"
	KindConcatenationFailure ErrorKind = "ConcatenationFailure"
	KindDeduplicationFailure ErrorKind = "DeduplicationFailure"
	KindExportFailure        ErrorKind = "ExportFailure"
	KindUnexpected           ErrorKind = "UnexpectedError"
)

// StageError records which stage produced err.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Kind maps an error to its ErrorKind.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInputNotFound):
		return KindInputNotFound
	case errors.Is(err, ErrEmptyData):
		return KindFileParseEmpty
	case errors.Is(err, ErrNoData):
		return KindNoDataFound
	case errors.Is(err, ErrMalformedCSV):
		return KindFileParseOther
	}

	var se *StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case StageDiscover:
			return KindDiscoveryFailure
		case StageLoad:
			return KindFileParseOther
		case StageConcat:
			return KindConcatenationFailure
		case StageDedup:
			return KindDeduplicationFailure
		case StageExport:
			return KindExportFailure
		}
	}
	return KindUnexpected
}
