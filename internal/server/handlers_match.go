package server

import (
	"net/http"

	"github.com/jonathan/resume-auditor/internal/matching"
	"github.com/jonathan/resume-auditor/internal/session"
	"github.com/jonathan/resume-auditor/internal/types"
)

// MatchResponse wraps a job match result for a session.
type MatchResponse struct {
	SessionID string `json:"session_id"`
	types.JobMatchResult
}

// handleMatch compares the session resume with a pasted job description.
// The session itself is not changed; tailoring is applied separately.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if state.Analysis == nil {
		s.errorResponse(w, http.StatusConflict, "Upload and analyze a resume first.")
		return
	}

	var req types.MatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	result, err := s.matcher.Match(r.Context(), state.ResumeText, state.Sections, req.JobDescription)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MatchResponse{SessionID: id, JobMatchResult: *result})
}

// handleTailor applies tailored sections and opens the editor.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req types.TailorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	s.updateAndRespond(w, r, func(state session.State) (session.State, error) {
		return state.ApplyTailoring(matching.ReconcileTailored(state.Sections, req.Sections))
	})
}
