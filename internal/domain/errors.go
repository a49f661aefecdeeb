package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyInvalid is returned when a source drops more records than the configured threshold allows.
	ErrTooManyInvalid = errors.New("invalid record fraction exceeds threshold")
	// ErrUnknownFormat is returned when no loader is registered for a source format.
	ErrUnknownFormat = errors.New("unknown source format")
)

// SourceError is a fatal, source-level failure.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with the failing source name.
func NewSourceError(source string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Source: source, Err: err}
}
