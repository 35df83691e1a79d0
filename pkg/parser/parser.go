package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// FileSource implements LineSource for a single log file.
type FileSource struct {
	path        string
	encoding    Encoding
	maxLineSize int
	logger      *slog.Logger

	file    *os.File
	reader  *bufio.Reader
	buf     []byte
	decoder *encoding.Decoder
	lineNum int
	skipped int
	done    bool
}

// SourceOption configures a FileSource.
type SourceOption func(*FileSource)

// WithMaxLineSize sets the longest line the source will accept.
func WithMaxLineSize(n int) SourceOption {
	return func(s *FileSource) {
		if n > 0 {
			s.maxLineSize = n
		}
	}
}

// WithLogger sets the logger that reports skipped lines.
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *FileSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileSource creates a LineSource that reads path with the given encoding.
// The file is opened lazily on the first call to Next.
func NewFileSource(path string, enc Encoding, opts ...SourceOption) *FileSource {
	s := &FileSource{
		path:        path,
		encoding:    enc,
		maxLineSize: DefaultMaxLineSize,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if enc == EncodingLatin1 {
		s.decoder = charmap.ISO8859_1.NewDecoder()
	}
	return s
}

// Path returns the file path the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Encoding returns the encoding the source decodes with.
func (s *FileSource) Encoding() Encoding {
	return s.encoding
}

// Skipped returns how many lines were dropped for exceeding the maximum
// line size.
func (s *FileSource) Skipped() int {
	return s.skipped
}

// Next returns the next log line.
// Returns an error wrapping ErrNotFound if the file does not exist, and
// ErrInvalidEncoding if a line does not decode.
// Lines longer than the maximum line size are skipped with a warning.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.done {
			return nil, io.EOF
		}

		if s.reader == nil {
			if err := s.open(); err != nil {
				return nil, err
			}
		}

		raw, size, err := s.readLine()
		if err == io.EOF {
			s.done = true
			if err := s.Close(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}

		s.lineNum++
		if raw == nil {
			s.skipped++
			s.logger.Warn("skipping oversized log line",
				"path", s.path,
				"line", s.lineNum,
				"bytes", size,
				"max_line_size", s.maxLineSize,
			)
			continue
		}

		text, err := s.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.path, s.lineNum, err)
		}

		return &LogLine{
			Content: text,
			Source:  s.path,
			LineNum: s.lineNum,
		}, nil
	}
}

// readLine reads one line and strips its terminator. A line longer than
// maxLineSize is consumed in full and returned as nil with its byte size.
// Returns io.EOF only when no bytes remain.
func (s *FileSource) readLine() ([]byte, int, error) {
	s.buf = s.buf[:0]
	size := 0
	for {
		frag, err := s.reader.ReadSlice('\n')
		size += len(frag)
		// Two extra bytes leave room for a CRLF terminator.
		if size <= s.maxLineSize+2 {
			s.buf = append(s.buf, frag...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == io.EOF && size > 0 {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		break
	}

	if size > s.maxLineSize+2 {
		return nil, size, nil
	}

	line := bytes.TrimSuffix(s.buf, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > s.maxLineSize {
		return nil, size, nil
	}
	return line, size, nil
}

// Close releases resources.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.reader = nil
		return err
	}
	return nil
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- operator-configured log path is expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("opening %s: %w: %w", s.path, ErrNotFound, err)
		}
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	s.file = f
	s.reader = bufio.NewReaderSize(f, min(64*1024, s.maxLineSize))
	s.lineNum = 0
	s.skipped = 0

	return nil
}

func (s *FileSource) decode(raw []byte) (string, error) {
	switch s.encoding {
	case EncodingLatin1:
		out, err := s.decoder.Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		return string(out), nil
	default:
		if !utf8.Valid(raw) {
			return "", ErrInvalidEncoding
		}
		return string(raw), nil
	}
}
