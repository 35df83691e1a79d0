package analyzer

// unknownCause is the explanation for codes missing from hangupCauses.
const unknownCause = "Unknown reason - check logs for more details."

var hangupCauses = map[string]string{
	"NORMAL_CLEARING":          "The call ended normally.",
	"NO_ANSWER":                "The call was not answered.",
	"USER_BUSY":                "The callee was busy.",
	"CALL_REJECTED":            "The call was rejected by the callee.",
	"ORIGINATOR_CANCEL":        "The caller canceled the call before it was answered.",
	"NETWORK_OUT_OF_ORDER":     "Network connectivity issues caused the call to drop.",
	"CS_EXECUTE":               "The call was terminated while executing a dialplan action (e.g., IVR, script, or early termination).",
	"DESTINATION_OUT_OF_ORDER": "Call failed - Destination number is out of service or unreachable.",
	"WRONG_CALL_STATE":         "Call failed due to an invalid call state.",
}

// ExplainHangupCause returns a human-readable explanation of a hangup cause
// code. An empty code yields an empty explanation.
func ExplainHangupCause(cause string) string {
	if cause == "" {
		return ""
	}
	if explanation, ok := hangupCauses[cause]; ok {
		return explanation
	}
	return unknownCause
}

// IsNormalClearing reports whether cause is an ordinary call completion.
func IsNormalClearing(cause string) bool {
	return cause == "NORMAL_CLEARING"
}
