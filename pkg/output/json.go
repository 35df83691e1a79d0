package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// quietRecord is the single-line form of a report, one object per run, for
// log pipelines and shell scripts.
type quietRecord struct {
	Kind      Kind   `json:"kind"`
	Subject   string `json:"subject"`
	CallID    string `json:"call_id,omitempty"`
	Severity  string `json:"severity,omitempty"`
	Headline  string `json:"headline"`
	HasIssues bool   `json:"has_issues"`
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as indented JSON, or as one compact line in
// quiet mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if report.Kind != KindCallFlow && report.Kind != KindSIPAuth {
		return fmt.Errorf("unknown report kind %q", report.Kind)
	}

	encoder := json.NewEncoder(w)

	if f.opts.Quiet {
		return encoder.Encode(newQuietRecord(report))
	}

	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func newQuietRecord(report *Report) quietRecord {
	rec := quietRecord{
		Kind:      report.Kind,
		Subject:   report.Subject,
		Headline:  report.Summary.Headline,
		HasIssues: report.Summary.HasIssues,
	}
	if report.CallFlow != nil {
		rec.CallID = report.CallFlow.CallID
	}
	if report.SIPAuth != nil {
		rec.Severity = string(report.SIPAuth.Severity)
	}
	return rec
}
