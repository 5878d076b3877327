package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an analysis failed
type ErrorKind int

const (
	UnexpectedError ErrorKind = iota
	FileNotFound
	MalformedInput
	ProcessingError
)

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case MalformedInput:
		return "MalformedInput"
	case ProcessingError:
		return "ProcessingError"
	default:
		return "UnexpectedError"
	}
}

// Sentinels for errors.Is. An *AnalysisError matches the one for its kind.
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrProcessing     = errors.New("csv processing error")
	ErrUnexpected     = errors.New("unexpected error")
)

// errNoHeader is the cause carried by MalformedInput errors
var errNoHeader = errors.New("CSV file is empty or has no header row.")

// AnalysisError is returned by Analyze. Error() yields the message placed
// in the {"error": ...} payload.
type AnalysisError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case FileNotFound:
		return fmt.Sprintf("File not found: %s", e.Path)
	case MalformedInput, ProcessingError:
		return fmt.Sprintf("CSV processing error: %s", e.cause())
	default:
		return fmt.Sprintf("An unexpected error occurred: %s", e.cause())
	}
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func (e *AnalysisError) Is(target error) bool {
	switch target {
	case ErrFileNotFound:
		return e.Kind == FileNotFound
	case ErrMalformedInput:
		return e.Kind == MalformedInput
	case ErrProcessing:
		return e.Kind == ProcessingError
	case ErrUnexpected:
		return e.Kind == UnexpectedError
	}
	return false
}

func (e *AnalysisError) cause() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Classify returns err as an *AnalysisError, wrapping anything else as
// UnexpectedError. It returns nil for a nil err.
func Classify(err error) *AnalysisError {
	if err == nil {
		return nil
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	return &AnalysisError{Kind: UnexpectedError, Err: err}
}

// KindOf reports the ErrorKind of err
func KindOf(err error) ErrorKind {
	if ae := Classify(err); ae != nil {
		return ae.Kind
	}
	return UnexpectedError
}
