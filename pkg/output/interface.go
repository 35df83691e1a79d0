package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter writes a diagnostic report to w.
type Formatter interface {
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name is the value accepted by NewFormatter.
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes the raw log line behind each event.
	Verbose bool

	// Quiet reduces the report to its headline.
	Quiet bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
