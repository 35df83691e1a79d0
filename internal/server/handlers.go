package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
	"github.com/ccollicutt/pbxdiag/pkg/output"
)

// Form actions accepted by POST /logs/.
const (
	actionCallFlow = "callflow"
	actionSIPAuth  = "sipauth"
)

// pageState is the view model of the diagnostics page. An untouched page
// has an empty number and null flow and result.
type pageState struct {
	Number        string                  `json:"number"`
	Flow          []analyzer.Event        `json:"flow"`
	SIPAuthResult *analyzer.SIPAuthResult `json:"sip_auth_result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogsPage handles GET /logs/.
func (s *Server) handleLogsPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageState{})
}

// handleLogsForm handles POST /logs/, routing on the form's action field.
func (s *Server) handleLogsForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	switch r.PostFormValue("action") {
	case actionCallFlow:
		number := strings.TrimSpace(r.PostFormValue("number"))
		state := pageState{Number: number, Flow: []analyzer.Event{}}
		if number != "" {
			trace, err := s.diag.TraceNumber(r.Context(), number)
			if err != nil {
				s.internalError(w, r, "call flow", err)
				return
			}
			state.Flow = trace.Events
		}
		writeJSON(w, http.StatusOK, state)

	case actionSIPAuth:
		extension := strings.TrimSpace(r.PostFormValue("extension"))
		domain := strings.TrimSpace(r.PostFormValue("domain"))
		if extension == "" || domain == "" {
			writeJSON(w, http.StatusOK, pageState{})
			return
		}
		result, err := s.diag.DiagnoseSIPAuth(r.Context(), extension, domain)
		if err != nil {
			s.internalError(w, r, "sip auth", err)
			return
		}
		writeJSON(w, http.StatusOK, pageState{SIPAuthResult: result})

	default:
		writeJSON(w, http.StatusOK, pageState{})
	}
}

// handleCallFlow handles GET /api/v1/callflow?number=.
func (s *Server) handleCallFlow(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	number := strings.TrimSpace(r.URL.Query().Get("number"))
	if number == "" {
		writeError(w, http.StatusBadRequest, "number is required")
		return
	}

	trace, err := s.diag.TraceNumber(r.Context(), number)
	if err != nil {
		s.internalError(w, r, "call flow", err)
		return
	}

	report := output.NewCallFlowReport(trace, s.diag.LogFile(), started)
	writeJSON(w, http.StatusOK, report)
	s.dispatch(r, report)
}

// handleSIPAuth handles GET /api/v1/sipauth?extension=&domain=.
func (s *Server) handleSIPAuth(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	q := r.URL.Query()
	extension := strings.TrimSpace(q.Get("extension"))
	domain := strings.TrimSpace(q.Get("domain"))
	if extension == "" || domain == "" {
		writeError(w, http.StatusBadRequest, "extension and domain are required")
		return
	}

	result, err := s.diag.DiagnoseSIPAuth(r.Context(), extension, domain)
	if err != nil {
		s.internalError(w, r, "sip auth", err)
		return
	}

	report := output.NewSIPAuthReport(result, extension, domain, s.diag.LogFile(), started)
	writeJSON(w, http.StatusOK, report)
	s.dispatch(r, report)
}

// dispatch sends report to the webhooks in the background. The delivery
// outlives the request, so it keeps the request's values but not its
// cancellation.
func (s *Server) dispatch(r *http.Request, report *output.Report) {
	if s.dispatcher == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		s.dispatcher.Dispatch(ctx, report)
	}()
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed",
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}
