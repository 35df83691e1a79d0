// Package parser provides line-oriented reading of call-server log files.
package parser

// LogLine is a single line of the log file in its original order.
type LogLine struct {
	// Content is the decoded line text without the line terminator.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Encoding selects how raw log bytes are decoded into text.
type Encoding string

const (
	// EncodingUTF8 decodes lines as UTF-8 and fails on invalid byte sequences.
	EncodingUTF8 Encoding = "utf-8"

	// EncodingLatin1 decodes lines as ISO-8859-1. Every byte is valid.
	EncodingLatin1 Encoding = "latin1"
)

// DefaultMaxLineSize is the longest line a source will read.
const DefaultMaxLineSize = 1024 * 1024
