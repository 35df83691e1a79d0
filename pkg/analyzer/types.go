// Package analyzer reconstructs call flows and SIP registration diagnoses
// from call-server logs.
package analyzer

import (
	"strings"
	"time"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// RoutingCategory describes where a call was transferred.
type RoutingCategory string

const (
	CategoryTimeCondition RoutingCategory = "Time Condition Applied"
	CategoryRingGroup     RoutingCategory = "Call Sent to Ring Group"
	CategoryExtension     RoutingCategory = "Call Routed to an Extension"
	CategoryIVR           RoutingCategory = "Call Passed Through an IVR"
	CategoryRouted        RoutingCategory = "Call Routed"

	// EventCallEnded marks the synthesized hangup event at the end of a flow.
	EventCallEnded = "Call Ended"
)

// Labels for the party that disconnected first.
const (
	CalleeDisconnectedFirst = "Callee Disconnected First"
	CallerDisconnectedFirst = "Caller Disconnected First"
)

// Event is one entry of a call-flow timeline.
// Routing events set Destination; the call-ended event sets Party, Reason,
// DetailedReason and WhoEnded.
type Event struct {
	// Event is the routing category or EventCallEnded.
	Event string `json:"event"`

	// Destination is the numeric transfer target of a routing event.
	// It is nil only for the call-ended event, so a transfer to 0 keeps it.
	Destination *int `json:"destination,omitempty"`

	// Log is the trimmed raw line for routing events, or a summary line
	// for the call-ended event.
	Log string `json:"log"`

	Party          string `json:"party,omitempty"`
	Reason         string `json:"reason,omitempty"`
	DetailedReason string `json:"detailed_reason,omitempty"`
	WhoEnded       string `json:"who_ended,omitempty"`
}

// IsCallEnded reports whether e is the synthesized hangup event.
func (e *Event) IsCallEnded() bool {
	return e.Event == EventCallEnded
}

// HangupDetails is the first hangup record found for a Call-ID.
// Both fields are empty when nothing matched.
type HangupDetails struct {
	Channel string `json:"channel,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// Found reports whether a hangup record was matched.
func (h HangupDetails) Found() bool {
	return h.Channel != "" && h.Cause != ""
}

// CallTrace is the result of locating a number's most recent call and
// rebuilding its flow.
type CallTrace struct {
	Number string  `json:"number"`
	CallID string  `json:"call_id,omitempty"`
	Found  bool    `json:"found"`
	Events []Event `json:"events"`
}

// Ended returns the call-ended event, or nil if the flow has none.
func (t *CallTrace) Ended() *Event {
	if n := len(t.Events); n > 0 && t.Events[n-1].IsCallEnded() {
		return &t.Events[n-1]
	}
	return nil
}

// Severity grades a SIP registration diagnosis.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// SIPAuthResult is the diagnosis of an extension@domain registration.
type SIPAuthResult struct {
	Severity Severity `json:"type"`
	Message  string   `json:"message"`

	// SourceIP is the device address from the first evidence line that
	// carried one.
	SourceIP string `json:"source_ip,omitempty"`

	// Evidence lists the matching log lines in file order. It is only set
	// for the wrong-password outcome.
	Evidence []string `json:"evidence,omitempty"`
}

// Logs joins the evidence lines into one block.
func (r *SIPAuthResult) Logs() string {
	return strings.Join(r.Evidence, "\n")
}

// ScanStats contains statistics for one pass over the log.
type ScanStats struct {
	// LinesProcessed is the total number of log lines examined.
	LinesProcessed int

	// LinesSkipped counts lines dropped for exceeding the maximum line size.
	LinesSkipped int

	// Encoding is the encoding the completed pass decoded with.
	Encoding parser.Encoding

	// Retried is true when the pass was restarted with the fallback encoding.
	Retried bool

	// StartTime is when the pass began.
	StartTime time.Time

	// EndTime is when the pass completed.
	EndTime time.Time
}
