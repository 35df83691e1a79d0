package analyzer

import (
	"context"
	"errors"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// ErrStop is returned by a LineProcessor that needs no further lines.
var ErrStop = errors.New("processor finished")

// LineProcessor consumes log lines during a scan.
// Each query (Call-ID lookup, hangup search, call flow, SIP evidence)
// implements this interface.
type LineProcessor interface {
	// Name identifies the processor in logs and errors.
	Name() string

	// Process handles a single log line, updating internal state.
	// Returns ErrStop when the processor is done, another error on
	// fatal problems.
	Process(ctx context.Context, line *parser.LogLine) error

	// Reset clears internal state so the scan can restart from the
	// first line.
	Reset()
}
