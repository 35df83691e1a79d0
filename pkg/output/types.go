// Package output provides formatting and output generation for diagnostic reports.
package output

import (
	"fmt"
	"time"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
)

// Kind identifies which diagnosis a report carries.
type Kind string

const (
	KindCallFlow Kind = "callflow"
	KindSIPAuth  Kind = "sipauth"
)

// Report is the complete output of one diagnosis.
type Report struct {
	Kind Kind `json:"kind"`

	// Subject is the dialed number or extension@domain that was diagnosed.
	Subject string `json:"subject"`

	// CallFlow is set for KindCallFlow reports.
	CallFlow *analyzer.CallTrace `json:"call_flow,omitempty"`

	// SIPAuth is set for KindSIPAuth reports.
	SIPAuth *analyzer.SIPAuthResult `json:"sip_auth,omitempty"`

	Summary  Summary  `json:"summary"`
	Metadata Metadata `json:"metadata"`
}

// Summary condenses a report to one line and an issue flag.
type Summary struct {
	// Headline is a one-line description of the outcome.
	Headline string `json:"headline"`

	// HasIssues is true when the diagnosis found a problem worth acting on.
	HasIssues bool `json:"has_issues"`

	// Events is the number of call-flow events (call-flow reports only).
	Events int `json:"events"`
}

// Metadata provides context about the diagnosis run.
type Metadata struct {
	// LogFile is the log that was scanned.
	LogFile string `json:"log_file"`

	// AnalyzedAt is when the diagnosis completed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the diagnosis took.
	Duration time.Duration `json:"duration"`
}

// NewCallFlowReport creates a Report from a call trace.
// A missing call, or a call that ended with anything other than normal
// clearing, is reported as an issue.
func NewCallFlowReport(trace *analyzer.CallTrace, logFile string, started time.Time) *Report {
	report := &Report{
		Kind:     KindCallFlow,
		Subject:  trace.Number,
		CallFlow: trace,
		Metadata: newMetadata(logFile, started),
	}
	report.Summary.Events = len(trace.Events)

	ended := trace.Ended()
	switch {
	case !trace.Found:
		report.Summary.Headline = fmt.Sprintf("No call found for number %s", trace.Number)
		report.Summary.HasIssues = true
	case ended == nil:
		report.Summary.Headline = fmt.Sprintf("Call %s: %d routing event(s), no hangup recorded",
			trace.CallID, len(trace.Events))
	default:
		report.Summary.Headline = ended.Log
		report.Summary.HasIssues = !analyzer.IsNormalClearing(ended.Reason)
	}

	return report
}

// NewSIPAuthReport creates a Report from a SIP registration diagnosis.
// Danger-severity results are reported as issues.
func NewSIPAuthReport(result *analyzer.SIPAuthResult, extension, domain, logFile string, started time.Time) *Report {
	return &Report{
		Kind:    KindSIPAuth,
		Subject: extension + "@" + domain,
		SIPAuth: result,
		Summary: Summary{
			Headline:  result.Message,
			HasIssues: result.Severity == analyzer.SeverityDanger,
		},
		Metadata: newMetadata(logFile, started),
	}
}

func newMetadata(logFile string, started time.Time) Metadata {
	now := time.Now()
	return Metadata{
		LogFile:    logFile,
		AnalyzedAt: now,
		Duration:   now.Sub(started),
	}
}

// HasIssues returns true if the diagnosis found a problem.
func (r *Report) HasIssues() bool {
	return r.Summary.HasIssues
}
