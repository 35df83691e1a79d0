package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Diagnoser answers call-flow and SIP registration queries against one log
// file. Every query performs its own scan; nothing is cached between calls.
//
// Results assume the log is append-ordered: "most recent" and "first" refer
// to file order, not to timestamps.
type Diagnoser struct {
	scanner *Scanner
	logger  *slog.Logger
}

// NewDiagnoser creates a diagnoser for the log file at path.
func NewDiagnoser(path string, opts ...ScannerOption) *Diagnoser {
	s := NewScanner(path, opts...)
	return &Diagnoser{
		scanner: s,
		logger:  s.logger,
	}
}

// LogFile returns the log file path.
func (d *Diagnoser) LogFile() string {
	return d.scanner.Path()
}

// run scans the log and reports whether the file existed.
func (d *Diagnoser) run(ctx context.Context, processors ...LineProcessor) (bool, error) {
	_, err := d.scanner.Run(ctx, processors...)
	if errors.Is(err, ErrLogNotFound) {
		d.logger.Warn("log file does not exist", "path", d.scanner.Path())
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResolveCallID returns the last Call-ID logged on a line containing number.
func (d *Diagnoser) ResolveCallID(ctx context.Context, number string) (string, bool, error) {
	resolver := NewCallIDResolver(number)
	if _, err := d.run(ctx, resolver); err != nil {
		return "", false, fmt.Errorf("resolving call id for %q: %w", number, err)
	}
	id, ok := resolver.CallID()
	return id, ok, nil
}

// FindHangup returns the first hangup record logged for callID.
func (d *Diagnoser) FindHangup(ctx context.Context, callID string) (HangupDetails, error) {
	finder := NewHangupFinder(callID)
	if _, err := d.run(ctx, finder); err != nil {
		return HangupDetails{}, fmt.Errorf("finding hangup for %s: %w", callID, err)
	}
	return finder.Details(), nil
}

// BuildCallFlow returns the routing timeline of callID followed by its
// call-ended event. The routing and hangup searches share one pass.
func (d *Diagnoser) BuildCallFlow(ctx context.Context, callID, number string) ([]Event, error) {
	flow := NewCallFlowBuilder(callID)
	hangup := NewHangupFinder(callID)

	exists, err := d.run(ctx, flow, hangup)
	if err != nil {
		return nil, fmt.Errorf("building call flow for %s: %w", callID, err)
	}
	if !exists {
		return []Event{}, nil
	}
	return flow.Events(hangup.Details(), number), nil
}

// TraceNumber locates the most recent call for number and rebuilds its flow.
// An empty number yields an empty trace without scanning.
func (d *Diagnoser) TraceNumber(ctx context.Context, number string) (*CallTrace, error) {
	trace := &CallTrace{Number: number, Events: []Event{}}
	if number == "" {
		return trace, nil
	}

	callID, ok, err := d.ResolveCallID(ctx, number)
	if err != nil {
		return nil, err
	}
	if !ok {
		return trace, nil
	}

	events, err := d.BuildCallFlow(ctx, callID, number)
	if err != nil {
		return nil, err
	}

	trace.CallID = callID
	trace.Found = true
	trace.Events = events
	return trace, nil
}

// DiagnoseSIPAuth classifies the registration outcome of extension@domain.
func (d *Diagnoser) DiagnoseSIPAuth(ctx context.Context, extension, domain string) (*SIPAuthResult, error) {
	collector := NewSIPAuthCollector(extension, domain)

	exists, err := d.run(ctx, collector)
	if err != nil {
		return nil, fmt.Errorf("diagnosing %s: %w", collector.Key(), err)
	}
	if !exists {
		return &SIPAuthResult{
			Severity: SeverityDanger,
			Message:  fmt.Sprintf("Log file %s does not exist.", d.scanner.Path()),
		}, nil
	}
	return collector.Diagnose(), nil
}
