package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// CallFlowBuilder collects the routing events of one call.
// Lines are deduplicated by exact text before classification.
type CallFlowBuilder struct {
	callID string
	seen   map[string]struct{}
	events []Event
}

// NewCallFlowBuilder creates a builder for the Call-ID.
func NewCallFlowBuilder(callID string) *CallFlowBuilder {
	return &CallFlowBuilder{
		callID: callID,
		seen:   make(map[string]struct{}),
	}
}

// Name returns the processor name.
func (b *CallFlowBuilder) Name() string {
	return "call-flow-builder"
}

// Process handles a single log line.
func (b *CallFlowBuilder) Process(_ context.Context, line *parser.LogLine) error {
	if !strings.Contains(line.Content, b.callID) {
		return nil
	}
	if _, dup := b.seen[line.Content]; dup {
		return nil
	}
	b.seen[line.Content] = struct{}{}

	dest, ok := MatchTransfer(line.Content)
	if !ok {
		return nil
	}

	b.events = append(b.events, Event{
		Event:       string(ClassifyDestination(dest)),
		Destination: &dest,
		Log:         strings.TrimSpace(line.Content),
	})
	return nil
}

// Reset clears internal state for reuse.
func (b *CallFlowBuilder) Reset() {
	b.seen = make(map[string]struct{})
	b.events = nil
}

// Events returns the routing events followed by a call-ended event built
// from hangup. The call-ended event is omitted when no hangup was found.
func (b *CallFlowBuilder) Events(hangup HangupDetails, number string) []Event {
	events := make([]Event, 0, len(b.events)+1)
	events = append(events, b.events...)
	if ended, ok := callEndedEvent(hangup, number); ok {
		events = append(events, ended)
	}
	return events
}

func callEndedEvent(hangup HangupDetails, number string) (Event, bool) {
	if !hangup.Found() {
		return Event{}, false
	}

	detail := ExplainHangupCause(hangup.Cause)
	who := WhoEndedFirst(hangup.Channel, number)

	return Event{
		Event:          EventCallEnded,
		Party:          hangup.Channel,
		Reason:         hangup.Cause,
		DetailedReason: detail,
		WhoEnded:       who,
		Log:            fmt.Sprintf("%s - Hangup by %s due to %s (%s)", who, hangup.Channel, hangup.Cause, detail),
	}, true
}

// WhoEndedFirst labels the disconnecting party. A channel naming the dialed
// number belongs to the callee. An empty number never matches.
func WhoEndedFirst(channel, number string) string {
	if number != "" && strings.Contains(channel, number) {
		return CalleeDisconnectedFirst
	}
	return CallerDisconnectedFirst
}
