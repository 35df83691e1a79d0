package analyzer

import (
	"strings"
	"testing"
)

const (
	challengeLine = "2024-01-15 09:00:00.000 [WARNING] sofia_reg.c:1750 SIP auth challenge (REGISTER) on sofia profile 'internal' for [200@pbx.local] from ip 10.0.0.7"
	failureLine   = "2024-01-15 09:00:00.100 [WARNING] sofia_reg.c:1800 SIP auth failure (REGISTER) on sofia profile 'internal' for [200@pbx.local] from ip 10.0.0.8"
	notFoundLine  = "2024-01-15 09:00:01.000 [WARNING] sofia_reg.c:3210 Can't find user [200@pbx.local] from 10.0.0.7"
)

func TestSIPAuthCollector_NoEvidence(t *testing.T) {
	c := NewSIPAuthCollector("200", "pbx.local")
	process(t, c, "unrelated", "SIP auth failure for [201@pbx.local] from ip 10.0.0.9")

	result := c.Diagnose()
	if result.Severity != SeverityInfo {
		t.Errorf("Severity = %q, want info", result.Severity)
	}
	if !strings.Contains(result.Message, "did not receive a registration request for 200@pbx.local") {
		t.Errorf("Message = %q", result.Message)
	}
	if !strings.Contains(result.Message, "(pbx.local)") {
		t.Errorf("Message %q should name the entered domain", result.Message)
	}
	if !strings.HasSuffix(result.Message, "(for example, you might need to use a domain like xxxx.ip-com.co.il).") {
		t.Errorf("Message %q should end with the example domain hint", result.Message)
	}
	if len(result.Evidence) != 0 {
		t.Errorf("Evidence = %v, want none", result.Evidence)
	}
}

func TestSIPAuthCollector_UserNotFound(t *testing.T) {
	c := NewSIPAuthCollector("200", "pbx.local")
	process(t, c, challengeLine, notFoundLine)

	result := c.Diagnose()
	if result.Severity != SeverityDanger {
		t.Errorf("Severity = %q, want danger", result.Severity)
	}
	if !strings.Contains(result.Message, "does not exist") {
		t.Errorf("Message = %q, want does-not-exist wording", result.Message)
	}
	if result.SourceIP != "10.0.0.7" {
		t.Errorf("SourceIP = %q, want 10.0.0.7", result.SourceIP)
	}
	if !strings.HasSuffix(result.Message, "SIP IP: 10.0.0.7") {
		t.Errorf("Message = %q, want source ip", result.Message)
	}
}

func TestSIPAuthCollector_WrongPassword(t *testing.T) {
	c := NewSIPAuthCollector("200", "pbx.local")
	process(t, c, "unrelated", failureLine, challengeLine)

	result := c.Diagnose()
	if result.Severity != SeverityDanger {
		t.Errorf("Severity = %q, want danger", result.Severity)
	}
	if !strings.Contains(result.Message, "wrong password") {
		t.Errorf("Message = %q, want wrong password wording", result.Message)
	}
	// The first evidence line carrying an address wins.
	if result.SourceIP != "10.0.0.8" {
		t.Errorf("SourceIP = %q, want 10.0.0.8", result.SourceIP)
	}
	if len(result.Evidence) != 2 {
		t.Fatalf("Evidence = %d lines, want 2", len(result.Evidence))
	}
	if result.Logs() != failureLine+"\n"+challengeLine {
		t.Errorf("Logs() = %q", result.Logs())
	}
}

func TestSIPAuthCollector_NoAddress(t *testing.T) {
	c := NewSIPAuthCollector("200", "pbx.local")
	process(t, c, "REGISTER sip:200@pbx.local")

	result := c.Diagnose()
	if result.SourceIP != "" {
		t.Errorf("SourceIP = %q, want empty", result.SourceIP)
	}
	if !strings.Contains(result.Message, "SIP IP: ,") {
		t.Errorf("Message = %q, want empty ip", result.Message)
	}
}

func TestSIPAuthCollector_CaseSensitive(t *testing.T) {
	c := NewSIPAuthCollector("200", "PBX.local")
	process(t, c, challengeLine)

	if result := c.Diagnose(); result.Severity != SeverityInfo {
		t.Errorf("Severity = %q, want info (key match is case-sensitive)", result.Severity)
	}
}
