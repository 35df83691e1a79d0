package analyzer

import (
	"context"
	"strings"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// HangupFinder records the first hangup line logged for a Call-ID and then
// stops. The first channel to report hanging up is not necessarily the
// party that ended the call.
type HangupFinder struct {
	callID  string
	details HangupDetails
}

// NewHangupFinder creates a finder for the Call-ID.
func NewHangupFinder(callID string) *HangupFinder {
	return &HangupFinder{callID: callID}
}

// Name returns the processor name.
func (f *HangupFinder) Name() string {
	return "hangup-finder"
}

// Process handles a single log line. It returns ErrStop after the first match.
func (f *HangupFinder) Process(_ context.Context, line *parser.LogLine) error {
	if f.details.Found() {
		return ErrStop
	}
	if !strings.Contains(line.Content, f.callID) || !strings.Contains(line.Content, hangupMarker) {
		return nil
	}
	if details, ok := MatchHangup(line.Content); ok {
		f.details = details
		return ErrStop
	}
	return nil
}

// Reset clears internal state for reuse.
func (f *HangupFinder) Reset() {
	f.details = HangupDetails{}
}

// Details returns the recorded hangup, empty if none matched.
func (f *HangupFinder) Details() HangupDetails {
	return f.details
}
