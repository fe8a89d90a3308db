package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-auditor/internal/scoring"
	"github.com/jonathan/resume-auditor/internal/session"
	"github.com/jonathan/resume-auditor/internal/types"
)

// SessionResponse is the session snapshot plus the dashboard figures derived from it.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	session.State
	Grade             scoring.Grade      `json:"grade,omitempty"`
	QuantifiedPercent int                `json:"quantified_percent"`
	Breakdown         *scoring.Breakdown `json:"breakdown,omitempty"`
}

func newSessionResponse(id string, state session.State) SessionResponse {
	resp := SessionResponse{SessionID: id, State: state}
	if state.Analysis != nil {
		b := scoring.Explain(state.Analysis)
		resp.Breakdown = &b
		resp.Grade = scoring.GradeFor(b.Total)
		resp.QuantifiedPercent = scoring.QuantifiedPercent(state.Analysis.Metrics)
	}
	return resp
}

// ScoreResponse is returned by POST /score.
type ScoreResponse struct {
	Score             int               `json:"score"`
	Grade             scoring.Grade     `json:"grade"`
	QuantifiedPercent int               `json:"quantified_percent"`
	Breakdown         scoring.Breakdown `json:"breakdown"`
}

// decodeJSON reads a JSON body into v and runs its Validate method when present.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if vr, ok := v.(interface{ Validate() error }); ok {
		return vr.Validate()
	}
	return nil
}

// loadSession fetches the session named by the {id} path value, writing the error response on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (string, session.State, bool) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return "", session.State{}, false
	}
	state, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		s.failWith(w, err)
		return "", session.State{}, false
	}
	return id, state, true
}

// handleCreateSession starts a session at the upload step.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, state, err := session.Create(r.Context(), s.sessions)
	if err != nil {
		s.failWith(w, err)
		return
	}
	log.Printf("[server] created session %s", id)
	s.jsonResponse(w, http.StatusCreated, newSessionResponse(id, state))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(id, state))
}

// handleDeleteSession removes the session entirely.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.failWith(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResetSession clears everything and returns to the upload step.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.updateAndRespond(w, r, func(state session.State) (session.State, error) {
		return state.Reset(), nil
	})
}

// handleUpload extracts and analyzes a resume file. On failure the session is unchanged.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.failWith(w, &ErrValidation{Field: "file", Message: "expected a multipart upload under 10 MB"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.failWith(w, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.failWith(w, &ErrValidation{Field: "file", Message: "could not read upload"})
		return
	}

	text, result, err := s.analyzer.AnalyzeDocument(r.Context(), header.Filename, data)
	if err != nil {
		log.Printf("[server] upload for session %s failed: %v", id, err)
		s.failWith(w, err)
		return
	}

	s.updateAndRespond(w, r, func(state session.State) (session.State, error) {
		return state.Uploaded(text, result), nil
	})
}

func (s *Server) handleOpenEditor(w http.ResponseWriter, r *http.Request) {
	s.updateAndRespond(w, r, session.State.OpenEditor)
}

func (s *Server) handleBackToDashboard(w http.ResponseWriter, r *http.Request) {
	s.updateAndRespond(w, r, session.State.BackToDashboard)
}

// handleScore recomputes the score of a posted analysis. The posted overallScore is ignored.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	breakdown := scoring.Explain(req.Analysis)
	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		Score:             breakdown.Total,
		Grade:             scoring.GradeFor(breakdown.Total),
		QuantifiedPercent: scoring.QuantifiedPercent(req.Analysis.Metrics),
		Breakdown:         breakdown,
	})
}
