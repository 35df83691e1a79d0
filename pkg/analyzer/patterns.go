package analyzer

import (
	"regexp"
	"strconv"
	"strings"
)

// Markers matched as plain substrings.
const (
	hangupMarker       = "hanging up"
	userNotFoundMarker = "Can't find user"
)

var (
	transferPattern = regexp.MustCompile(`Transfer .*? to XML\[(\d+)@`)
	hangupPattern   = regexp.MustCompile(`Channel (sofia/\S+) hanging up, cause: (\S+)`)
	callIDPattern   = regexp.MustCompile(`(?i)([a-f0-9-]{36})`)
	sipIPPattern    = regexp.MustCompile(`(?i)from ip\s+(\d+\.\d+\.\d+\.\d+)`)
)

// MatchTransfer extracts the numeric destination of a dialplan transfer
// such as "Transfer sofia/... to XML[250@default]".
// Destinations that do not fit in an int are not matched.
func MatchTransfer(line string) (int, bool) {
	m := transferPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	dest, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return dest, true
}

// MatchHangup extracts the channel and cause from a "hanging up" line.
// It does not check which call the line belongs to.
func MatchHangup(line string) (HangupDetails, bool) {
	m := hangupPattern.FindStringSubmatch(line)
	if m == nil {
		return HangupDetails{}, false
	}
	return HangupDetails{Channel: m[1], Cause: m[2]}, true
}

// MatchCallID returns the first 36-character Call-ID token in line.
func MatchCallID(line string) (string, bool) {
	m := callIDPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchSIPIP returns the dotted-quad address following "from ip".
func MatchSIPIP(line string) (string, bool) {
	m := sipIPPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ContainsUserNotFound reports whether the server rejected the user as unknown.
func ContainsUserNotFound(line string) bool {
	return strings.Contains(line, userNotFoundMarker)
}

// ClassifyDestination maps a transfer destination to its routing category.
func ClassifyDestination(dest int) RoutingCategory {
	switch {
	case dest >= 800 && dest <= 899:
		return CategoryTimeCondition
	case dest >= 400 && dest <= 499:
		return CategoryRingGroup
	case dest >= 200 && dest <= 399:
		return CategoryExtension
	case dest >= 600 && dest <= 699:
		return CategoryIVR
	default:
		return CategoryRouted
	}
}
