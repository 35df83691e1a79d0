package parser

import (
	"context"
	"errors"
)

// LineSource provides an iterator over the lines of a log file.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next log line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}

var (
	// ErrNotFound is returned when the log file does not exist.
	ErrNotFound = errors.New("log file not found")

	// ErrInvalidEncoding is returned when a line cannot be decoded with the
	// source's encoding. It is reported at read time, not at open time.
	ErrInvalidEncoding = errors.New("invalid text encoding")
)
