package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// ErrLogNotFound is returned by Scanner.Run when the log file does not exist.
var ErrLogNotFound = parser.ErrNotFound

// Scanner runs line processors over a complete pass of one log file.
// It holds no per-scan state and is safe for concurrent use.
type Scanner struct {
	path        string
	maxLineSize int
	logger      *slog.Logger
}

// ScannerOption configures scanner behavior.
type ScannerOption func(*Scanner)

// WithMaxLineSize sets the longest line a scan accepts.
func WithMaxLineSize(n int) ScannerOption {
	return func(s *Scanner) {
		s.maxLineSize = n
	}
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner creates a scanner for the log file at path.
func NewScanner(path string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		path:        path,
		maxLineSize: parser.DefaultMaxLineSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *Scanner) Path() string {
	return s.path
}

// Run feeds every line of the log to each processor in file order.
//
// The pass is decoded as UTF-8. If a line fails to decode, every processor
// is reset and the whole pass is restarted from the first line as Latin-1.
// No other error triggers the retry.
//
// A processor that returns ErrStop receives no further lines; the pass ends
// early once every processor has stopped.
func (s *Scanner) Run(ctx context.Context, processors ...LineProcessor) (*ScanStats, error) {
	for _, p := range processors {
		p.Reset()
	}

	stats, err := s.pass(ctx, parser.EncodingUTF8, processors)
	if !errors.Is(err, parser.ErrInvalidEncoding) {
		return stats, err
	}

	s.logger.Debug("log is not valid utf-8, rescanning as latin1",
		"path", s.path,
		"error", err,
	)

	for _, p := range processors {
		p.Reset()
	}

	stats, err = s.pass(ctx, parser.EncodingLatin1, processors)
	if stats != nil {
		stats.Retried = true
	}
	return stats, err
}

func (s *Scanner) pass(ctx context.Context, enc parser.Encoding, processors []LineProcessor) (*ScanStats, error) {
	source := parser.NewFileSource(s.path, enc,
		parser.WithMaxLineSize(s.maxLineSize),
		parser.WithLogger(s.logger),
	)
	defer source.Close()

	stats := &ScanStats{
		Encoding:  enc,
		StartTime: time.Now(),
	}

	active := make([]bool, len(processors))
	remaining := len(processors)
	for i := range active {
		active[i] = true
	}

	for remaining > 0 {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", s.path, err)
		}

		stats.LinesProcessed++

		for i, p := range processors {
			if !active[i] {
				continue
			}
			err := p.Process(ctx, line)
			if errors.Is(err, ErrStop) {
				active[i] = false
				remaining--
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("processing line %d with %s: %w", line.LineNum, p.Name(), err)
			}
		}
	}

	stats.EndTime = time.Now()
	stats.LinesSkipped = source.Skipped()

	s.logger.Debug("log scan complete",
		"path", s.path,
		"encoding", string(enc),
		"lines", stats.LinesProcessed,
		"skipped", stats.LinesSkipped,
		"duration_ms", stats.EndTime.Sub(stats.StartTime).Milliseconds(),
	)

	return stats, nil
}
