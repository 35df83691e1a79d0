package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// recorder is a LineProcessor that keeps every line it sees.
type recorder struct {
	lines     []string
	stopAfter int
	resets    int
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Process(_ context.Context, line *parser.LogLine) error {
	r.lines = append(r.lines, line.Content)
	if r.stopAfter > 0 && len(r.lines) >= r.stopAfter {
		return ErrStop
	}
	return nil
}

func (r *recorder) Reset() {
	r.lines = nil
	r.resets++
}

func TestScanner_Run(t *testing.T) {
	path := writeLog(t, "one", "two", "three")
	rec := &recorder{}

	stats, err := NewScanner(path).Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.lines) != 3 {
		t.Errorf("processed %d lines, want 3", len(rec.lines))
	}
	if stats.LinesProcessed != 3 {
		t.Errorf("LinesProcessed = %d, want 3", stats.LinesProcessed)
	}
	if stats.Encoding != parser.EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8", stats.Encoding)
	}
	if stats.Retried {
		t.Error("Retried = true for a valid utf-8 log")
	}
}

func TestScanner_EarlyStop(t *testing.T) {
	path := writeLog(t, "one", "two", "three", "four", "five")
	rec := &recorder{stopAfter: 2}

	stats, err := NewScanner(path).Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.LinesProcessed != 2 {
		t.Errorf("LinesProcessed = %d, want 2 (scan should stop)", stats.LinesProcessed)
	}
}

func TestScanner_StoppedProcessorDoesNotEndOthers(t *testing.T) {
	path := writeLog(t, "one", "two", "three", "four")
	early := &recorder{stopAfter: 1}
	full := &recorder{}

	stats, err := NewScanner(path).Run(context.Background(), early, full)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(early.lines) != 1 {
		t.Errorf("early processor saw %d lines, want 1", len(early.lines))
	}
	if len(full.lines) != 4 {
		t.Errorf("full processor saw %d lines, want 4", len(full.lines))
	}
	if stats.LinesProcessed != 4 {
		t.Errorf("LinesProcessed = %d, want 4", stats.LinesProcessed)
	}
}

func TestScanner_Latin1Fallback(t *testing.T) {
	path := writeRawLog(t, []byte("first\nsecond\nRegistration from Jos\xe9\nlast\n"))
	rec := &recorder{}

	stats, err := NewScanner(path).Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !stats.Retried {
		t.Error("Retried = false, want true")
	}
	if stats.Encoding != parser.EncodingLatin1 {
		t.Errorf("Encoding = %q, want latin1", stats.Encoding)
	}
	// Lines from the failed utf-8 attempt must not leak into the result.
	if len(rec.lines) != 4 {
		t.Fatalf("processed %d lines, want 4: %q", len(rec.lines), rec.lines)
	}
	if rec.lines[2] != "Registration from José" {
		t.Errorf("line = %q, want decoded latin1", rec.lines[2])
	}
	if rec.resets != 2 {
		t.Errorf("resets = %d, want 2", rec.resets)
	}
}

func TestScanner_NotFound(t *testing.T) {
	_, err := NewScanner(missingLog(t)).Run(context.Background(), &recorder{})
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("Run() error = %v, want ErrLogNotFound", err)
	}
}

func TestScanner_ReadErrorIsNotRetried(t *testing.T) {
	// Reading a directory fails at read time with an I/O error, which must
	// surface instead of triggering the encoding fallback.
	dir := t.TempDir()
	rec := &recorder{}

	_, err := NewScanner(dir).Run(context.Background(), rec)
	if err == nil {
		t.Fatal("Run() expected error for a directory")
	}
	if errors.Is(err, ErrLogNotFound) || errors.Is(err, parser.ErrInvalidEncoding) {
		t.Errorf("Run() error = %v, want a plain I/O error", err)
	}
	if rec.resets != 1 {
		t.Errorf("resets = %d, want 1 (no retry)", rec.resets)
	}
}

func TestScanner_ProcessorError(t *testing.T) {
	path := writeLog(t, "one")
	boom := errors.New("boom")

	_, err := NewScanner(path).Run(context.Background(), failing{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
}

func TestScanner_ContextCancelled(t *testing.T) {
	path := writeLog(t, "one", "two")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(path).Run(ctx, &recorder{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

type failing struct{ err error }

func (f failing) Name() string { return "failing" }

func (f failing) Process(context.Context, *parser.LogLine) error { return f.err }

func (f failing) Reset() {}

func TestScanner_OversizedLineDoesNotAbortScan(t *testing.T) {
	path := writeLog(t,
		transferLine(testCallID, "250")+" 555",
		strings.Repeat("x", 2*parser.DefaultMaxLineSize),
		hangupLine(testCallID, "sofia/gateway/555", "USER_BUSY"),
	)
	d := NewDiagnoser(path, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	trace, err := d.TraceNumber(ctx, "555")
	if err != nil {
		t.Fatalf("TraceNumber() error = %v", err)
	}
	if !trace.Found || trace.CallID != testCallID {
		t.Fatalf("trace = %+v, want call %s", trace, testCallID)
	}
	if len(trace.Events) != 2 {
		t.Fatalf("got %d events, want routing and call ended", len(trace.Events))
	}
	ended := trace.Ended()
	if ended == nil || ended.Reason != "USER_BUSY" {
		t.Errorf("Ended() = %+v, want USER_BUSY", ended)
	}

	result, err := d.DiagnoseSIPAuth(ctx, "200", "pbx.local")
	if err != nil {
		t.Fatalf("DiagnoseSIPAuth() error = %v", err)
	}
	if result.Severity != SeverityInfo {
		t.Errorf("Severity = %q, want info", result.Severity)
	}
}

func TestScanner_CountsSkippedLines(t *testing.T) {
	path := writeLog(t, "one", strings.Repeat("x", 100), "three")
	rec := &recorder{}

	stats, err := NewScanner(path, WithMaxLineSize(32)).Run(context.Background(), rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.lines) != 2 || rec.lines[1] != "three" {
		t.Errorf("lines = %q, want [one three]", rec.lines)
	}
	if stats.LinesSkipped != 1 || stats.LinesProcessed != 2 {
		t.Errorf("stats = %+v, want 2 processed and 1 skipped", stats)
	}
	if stats.Retried {
		t.Error("an oversized line must not trigger the encoding fallback")
	}
}
