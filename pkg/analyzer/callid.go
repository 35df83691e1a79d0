package analyzer

import (
	"context"
	"strings"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// CallIDResolver finds the most recent Call-ID logged alongside a number.
// Every matching line overwrites the previous result, so the last match in
// file order wins. Log files are assumed to be append-ordered.
type CallIDResolver struct {
	number string
	callID string
}

// NewCallIDResolver creates a resolver for the dialed number.
func NewCallIDResolver(number string) *CallIDResolver {
	return &CallIDResolver{number: number}
}

// Name returns the processor name.
func (r *CallIDResolver) Name() string {
	return "call-id-resolver"
}

// Process handles a single log line.
func (r *CallIDResolver) Process(_ context.Context, line *parser.LogLine) error {
	if !strings.Contains(line.Content, r.number) {
		return nil
	}
	if id, ok := MatchCallID(line.Content); ok {
		r.callID = id
	}
	return nil
}

// Reset clears internal state for reuse.
func (r *CallIDResolver) Reset() {
	r.callID = ""
}

// CallID returns the last Call-ID seen and whether one was found.
func (r *CallIDResolver) CallID() (string, bool) {
	return r.callID, r.callID != ""
}
