package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-auditor/internal/export"
	"github.com/jonathan/resume-auditor/internal/metrics"
)

// handleExport renders the current sections as a downloadable file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, state, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.failWith(w, err)
		return
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		s.failWith(w, err)
		return
	}

	data, err := export.Render(exporter, state.Sections)
	if err != nil {
		s.failWith(w, err)
		return
	}
	metrics.RecordExport(string(format))
	log.Printf("[export] session %s: %s, %d bytes", id, format, len(data))

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[export] write failed: %v", err)
	}
}
