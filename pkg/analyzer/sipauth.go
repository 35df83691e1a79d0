package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ccollicutt/pbxdiag/pkg/parser"
)

// SIPAuthCollector gathers every log line mentioning an extension@domain.
type SIPAuthCollector struct {
	extension string
	domain    string
	evidence  []string
}

// NewSIPAuthCollector creates a collector for the extension and domain.
func NewSIPAuthCollector(extension, domain string) *SIPAuthCollector {
	return &SIPAuthCollector{extension: extension, domain: domain}
}

// Key returns the extension@domain search string.
func (c *SIPAuthCollector) Key() string {
	return c.extension + "@" + c.domain
}

// Name returns the processor name.
func (c *SIPAuthCollector) Name() string {
	return "sip-auth-collector"
}

// Process handles a single log line.
func (c *SIPAuthCollector) Process(_ context.Context, line *parser.LogLine) error {
	if strings.Contains(line.Content, c.Key()) {
		c.evidence = append(c.evidence, line.Content)
	}
	return nil
}

// Reset clears internal state for reuse.
func (c *SIPAuthCollector) Reset() {
	c.evidence = nil
}

// Evidence returns the collected lines in file order.
func (c *SIPAuthCollector) Evidence() []string {
	return c.evidence
}

// Diagnose classifies the collected evidence.
//
// No evidence means the registration never reached this server. Evidence
// with an unknown-user rejection means the extension does not exist. Any
// other evidence is reported as a failed password check.
func (c *SIPAuthCollector) Diagnose() *SIPAuthResult {
	key := c.Key()

	if len(c.evidence) == 0 {
		return &SIPAuthResult{
			Severity: SeverityInfo,
			Message: fmt.Sprintf("We did not receive a registration request for %s to the server. "+
				"This likely means your device is sending its SIP request to a different domain "+
				"than the one you entered (%s). Please check your SIP configuration and update "+
				"the domain if necessary (for example, you might need to use a domain like "+
				"xxxx.ip-com.co.il).", key, c.domain),
		}
	}

	ip := firstSIPIP(c.evidence)

	for _, line := range c.evidence {
		if ContainsUserNotFound(line) {
			return &SIPAuthResult{
				Severity: SeverityDanger,
				Message:  fmt.Sprintf("Extension %s does not exist on the server. Request sent from SIP IP: %s", key, ip),
				SourceIP: ip,
			}
		}
	}

	evidence := make([]string, len(c.evidence))
	copy(evidence, c.evidence)

	return &SIPAuthResult{
		Severity: SeverityDanger,
		Message: fmt.Sprintf("Registration request for %s was sent from SIP IP: %s, "+
			"but authentication failed due to a wrong password.", key, ip),
		SourceIP: ip,
		Evidence: evidence,
	}
}

func firstSIPIP(lines []string) string {
	for _, line := range lines {
		if ip, ok := MatchSIPIP(line); ok {
			return ip
		}
	}
	return ""
}
