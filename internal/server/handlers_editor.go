package server

import (
	"log"
	"net/http"

	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/session"
	"github.com/jonathan/resume-auditor/internal/types"
)

// ImproveResponse carries both rewrite variants with a quality read-out of each.
type ImproveResponse struct {
	SessionID string                                  `json:"session_id"`
	SectionID string                                  `json:"section_id"`
	Improved  types.ImprovedContent                   `json:"improved"`
	Quality   map[types.RewriteMode]rewriting.Quality `json:"quality"`
	Applied   *types.ResumeSection                    `json:"applied,omitempty"`
}

// SectionFailure reports one section a batch rewrite left unchanged.
type SectionFailure struct {
	SectionID string `json:"section_id"`
	Error     string `json:"error"`
}

// RewriteResponse is returned by the batch rewrite endpoints.
type RewriteResponse struct {
	SessionID string                `json:"session_id"`
	Mode      types.RewriteMode     `json:"mode"`
	Sections  []types.ResumeSection `json:"sections"`
	Rewritten int                   `json:"rewritten"`
	Failed    int                   `json:"failed"`
	Failures  []SectionFailure      `json:"failures,omitempty"`
	// Superseded counts rewrites dropped because the section was edited meanwhile.
	Superseded int `json:"superseded,omitempty"`
}

func newRewriteResponse(id string, mode types.RewriteMode, result *rewriting.BatchResult, sections []types.ResumeSection, superseded int) RewriteResponse {
	resp := RewriteResponse{
		SessionID:  id,
		Mode:       mode,
		Sections:   sections,
		Rewritten:  result.Rewritten - superseded,
		Failed:     result.Failed,
		Superseded: superseded,
	}
	for _, o := range result.Outcomes {
		if !o.OK() {
			resp.Failures = append(resp.Failures, SectionFailure{SectionID: o.SectionID, Error: UserMessage(o.Err)})
		}
	}
	return resp
}

// handleUpdateSection stores a manual edit of one section.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	s.updateAndRespond(w, r, func(state session.State) (session.State, error) {
		sections, err := rewriting.UpdateSectionContent(state.Sections, r.PathValue("section_id"), req.Content)
		if err != nil {
			return state, err
		}
		return state.WithSections(sections), nil
	})
}

// handleImproveSection returns both variants for one section. With ?apply=<mode> the
// chosen variant replaces the section content and the original is retained.
func (s *Server) handleImproveSection(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	sectionID := r.PathValue("section_id")
	idx := types.FindSection(state.Sections, sectionID)
	if idx < 0 {
		s.failWith(w, &rewriting.SectionNotFoundError{ID: sectionID})
		return
	}

	apply := types.RewriteMode(r.URL.Query().Get("apply"))
	if apply != "" && !apply.Valid() {
		s.failWith(w, &ErrValidation{Field: "apply", Message: "must be professional or atsOptimized"})
		return
	}

	section := state.Sections[idx]
	improved, err := s.rewriter.ImproveSection(r.Context(), section.Title, section.Content)
	if err != nil {
		s.failWith(w, err)
		return
	}

	resp := ImproveResponse{
		SessionID: id,
		SectionID: sectionID,
		Improved:  *improved,
		Quality: map[types.RewriteMode]rewriting.Quality{
			types.ModeProfessional: rewriting.Assess(section.Title, improved.Professional),
			types.ModeATSOptimized: rewriting.Assess(section.Title, improved.ATSOptimized),
		},
	}

	if apply != "" {
		next, err := s.updateSession(r.Context(), id, func(current session.State) (session.State, error) {
			sections, err := rewriting.ApplyToSection(current.Sections, sectionID, improved.Pick(apply))
			if err != nil {
				return current, err
			}
			return current.WithSections(sections), nil
		})
		if err != nil {
			s.failWith(w, err)
			return
		}
		applied := next.Sections[types.FindSection(next.Sections, sectionID)]
		resp.Applied = &applied
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRevertSection restores the pre-rewrite content of a section.
func (s *Server) handleRevertSection(w http.ResponseWriter, r *http.Request) {
	s.updateAndRespond(w, r, func(state session.State) (session.State, error) {
		sections, err := rewriting.RevertByID(state.Sections, r.PathValue("section_id"))
		if err != nil {
			return state, err
		}
		return state.WithSections(sections), nil
	})
}

// commitBatch merges a finished batch into the session as it is now, so edits made while
// the model calls ran are kept.
func (s *Server) commitBatch(r *http.Request, id string, base []types.ResumeSection, result *rewriting.BatchResult) ([]types.ResumeSection, int, error) {
	superseded := 0
	next, err := s.updateSession(r.Context(), id, func(current session.State) (session.State, error) {
		var merged []types.ResumeSection
		merged, superseded = rewriting.MergeInto(current.Sections, base, result.Outcomes)
		return current.WithSections(merged), nil
	})
	if err != nil {
		return nil, 0, err
	}
	if superseded > 0 {
		log.Printf("[rewrite] session %s: %d sections edited during the batch, kept the edits", id, superseded)
	}
	return next.Sections, superseded, nil
}

// handleRewriteAll rewrites every section and swaps the session sections once.
func (s *Server) handleRewriteAll(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req types.RewriteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	result, err := s.rewriter.RewriteAll(r.Context(), state.Sections, req.Mode)
	if err != nil {
		s.failWith(w, err)
		return
	}
	log.Printf("[rewrite] session %s: %d rewritten, %d kept", id, result.Rewritten, result.Failed)

	sections, superseded, err := s.commitBatch(r, id, state.Sections, result)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newRewriteResponse(id, req.Mode, result, sections, superseded))
}

// handleRewriteStream is handleRewriteAll reporting each section as it finishes.
func (s *Server) handleRewriteStream(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req types.RewriteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := len(state.Sections)
	done := 0
	result, err := s.rewriter.RewriteAllWithProgress(r.Context(), state.Sections, req.Mode, func(o rewriting.Outcome) {
		done++
		event := SectionEvent{SectionID: o.SectionID, OK: o.OK(), Done: done, Total: total}
		if !o.OK() {
			event.Error = UserMessage(o.Err)
		}
		sse.WriteEvent("section", event) //nolint:errcheck
	})
	if err != nil {
		sse.WriteError(UserMessage(err))
		return
	}

	sections, superseded, err := s.commitBatch(r, id, state.Sections, result)
	if err != nil {
		log.Printf("[server] error saving session %s: %v", id, err)
		sse.WriteError(UserMessage(err))
		return
	}
	sse.WriteComplete(newRewriteResponse(id, req.Mode, result, sections, superseded))
}
