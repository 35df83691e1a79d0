package output

import (
	"time"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
)

const testCallID = "1a2b3c4d-0000-4000-8000-00000000abcd"

func createTestTrace(cause string) *analyzer.CallTrace {
	return &analyzer.CallTrace{
		Number: "555",
		CallID: testCallID,
		Found:  true,
		Events: []analyzer.Event{
			{
				Event:       string(analyzer.CategoryExtension),
				Destination: intPtr(250),
				Log:         testCallID + " Transfer sofia/internal/100 to XML[250@default]",
			},
			{
				Event:          analyzer.EventCallEnded,
				Party:          "sofia/gateway/555",
				Reason:         cause,
				DetailedReason: analyzer.ExplainHangupCause(cause),
				WhoEnded:       analyzer.CalleeDisconnectedFirst,
				Log: analyzer.CalleeDisconnectedFirst + " - Hangup by sofia/gateway/555 due to " +
					cause + " (" + analyzer.ExplainHangupCause(cause) + ")",
			},
		},
	}
}

func createTestReport() *Report {
	return NewCallFlowReport(createTestTrace("USER_BUSY"), "test.txt", time.Now())
}

func createSIPReport() *Report {
	result := &analyzer.SIPAuthResult{
		Severity: analyzer.SeverityDanger,
		Message:  "Registration request for 200@pbx.local was sent from SIP IP: 10.0.0.9, but authentication failed due to a wrong password.",
		SourceIP: "10.0.0.9",
		Evidence: []string{
			"REGISTER 200@pbx.local from ip 10.0.0.9",
			"auth failure for 200@pbx.local",
		},
	}
	return NewSIPAuthReport(result, "200", "pbx.local", "test.txt", time.Now())
}

func intPtr(n int) *int {
	return &n
}
