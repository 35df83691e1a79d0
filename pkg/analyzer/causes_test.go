package analyzer

import "testing"

func TestExplainHangupCause(t *testing.T) {
	tests := map[string]string{
		"NORMAL_CLEARING":          "The call ended normally.",
		"NO_ANSWER":                "The call was not answered.",
		"USER_BUSY":                "The callee was busy.",
		"CALL_REJECTED":            "The call was rejected by the callee.",
		"ORIGINATOR_CANCEL":        "The caller canceled the call before it was answered.",
		"NETWORK_OUT_OF_ORDER":     "Network connectivity issues caused the call to drop.",
		"CS_EXECUTE":               "The call was terminated while executing a dialplan action (e.g., IVR, script, or early termination).",
		"DESTINATION_OUT_OF_ORDER": "Call failed - Destination number is out of service or unreachable.",
		"WRONG_CALL_STATE":         "Call failed due to an invalid call state.",
		"RECOVERY_ON_TIMER_EXPIRE": "Unknown reason - check logs for more details.",
		"normal_clearing":          "Unknown reason - check logs for more details.",
		"":                         "",
	}

	for cause, want := range tests {
		if got := ExplainHangupCause(cause); got != want {
			t.Errorf("ExplainHangupCause(%q) = %q, want %q", cause, got, want)
		}
	}
}

func TestIsNormalClearing(t *testing.T) {
	if !IsNormalClearing("NORMAL_CLEARING") {
		t.Error("IsNormalClearing(NORMAL_CLEARING) = false")
	}
	if IsNormalClearing("USER_BUSY") {
		t.Error("IsNormalClearing(USER_BUSY) = true")
	}
}
