package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
)

// textStyles are bound to the output writer, so colors only appear when
// the writer is a color-capable terminal.
type textStyles struct {
	header  lipgloss.Style
	ended   lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

func newTextStyles(w io.Writer) *textStyles {
	r := lipgloss.NewRenderer(w)
	return &textStyles{
		header:  r.NewStyle().Bold(true),
		ended:   r.NewStyle().Foreground(lipgloss.Color("220")),
		danger:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("220")),
		info:    r.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

func (s *textStyles) severity(sev analyzer.Severity) lipgloss.Style {
	switch sev {
	case analyzer.SeverityDanger:
		return s.danger
	case analyzer.SeverityWarning:
		return s.warning
	default:
		return s.info
	}
}

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "pbxdiag: %s\n", report.Summary.Headline)
		return err
	}

	styles := newTextStyles(w)

	switch report.Kind {
	case KindCallFlow:
		f.formatCallFlow(report, styles, w)
	case KindSIPAuth:
		f.formatSIPAuth(report, styles, w)
	default:
		return fmt.Errorf("unknown report kind %q", report.Kind)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s\n", report.Summary.Headline)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Log file: %s\n", report.Metadata.LogFile)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) formatCallFlow(report *Report, styles *textStyles, w io.Writer) {
	trace := report.CallFlow

	fmt.Fprintln(w, styles.header.Render("=== pbxdiag Call Flow ==="))
	fmt.Fprintf(w, "Number:  %s\n", report.Subject)

	if trace == nil || !trace.Found {
		fmt.Fprintln(w, "Call-ID: not found")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Call-ID: %s\n", trace.CallID)
	fmt.Fprintln(w)

	if len(trace.Events) == 0 {
		fmt.Fprintln(w, "  No routing or hangup events recorded")
		fmt.Fprintln(w)
		return
	}

	for i := range trace.Events {
		f.formatEvent(i+1, &trace.Events[i], styles, w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEvent(n int, e *analyzer.Event, styles *textStyles, w io.Writer) {
	if e.IsCallEnded() {
		line := fmt.Sprintf("%s: %s", e.Event, e.Reason)
		if e.DetailedReason != "" {
			line += " - " + e.DetailedReason
		}
		if !analyzer.IsNormalClearing(e.Reason) {
			line = styles.ended.Render(line)
		}
		fmt.Fprintf(w, "  %d. %s\n", n, line)
		fmt.Fprintf(w, "     %s, hangup by %s\n", e.WhoEnded, e.Party)
		return
	}

	if e.Destination != nil {
		fmt.Fprintf(w, "  %d. %s (%d)\n", n, e.Event, *e.Destination)
	} else {
		fmt.Fprintf(w, "  %d. %s\n", n, e.Event)
	}
	if f.opts.Verbose {
		fmt.Fprintf(w, "     %s\n", e.Log)
	}
}

func (f *TextFormatter) formatSIPAuth(report *Report, styles *textStyles, w io.Writer) {
	result := report.SIPAuth

	fmt.Fprintln(w, styles.header.Render("=== pbxdiag SIP Registration Diagnosis ==="))
	fmt.Fprintf(w, "Extension: %s\n", report.Subject)
	fmt.Fprintln(w)

	if result == nil {
		return
	}

	tag := "[" + strings.ToUpper(string(result.Severity)) + "]"
	fmt.Fprintf(w, "%s %s\n", styles.severity(result.Severity).Render(tag), result.Message)

	if len(result.Evidence) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Evidence (%d line(s)):\n", len(result.Evidence))
		for _, line := range result.Evidence {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintln(w)
}
