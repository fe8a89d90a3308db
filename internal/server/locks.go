package server

import (
	"context"
	"hash/fnv"
	"net/http"
	"sync"

	"github.com/jonathan/resume-auditor/internal/session"
)

// sessionLocks serializes read-modify-write cycles on a session within this process.
// Sessions hash onto a fixed set of mutexes; the zero value is ready to use.
type sessionLocks struct {
	stripes [64]sync.Mutex
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}

// updateSession loads the current state, applies fn and saves the result under the
// session's lock. fn must not call the model.
func (s *Server) updateSession(ctx context.Context, id string, fn func(session.State) (session.State, error)) (session.State, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return session.State{}, err
	}
	next, err := fn(state)
	if err != nil {
		return session.State{}, err
	}
	if err := s.sessions.Save(ctx, id, next); err != nil {
		return session.State{}, err
	}
	return next, nil
}

// updateAndRespond runs updateSession for the {id} path value and writes the session snapshot.
func (s *Server) updateAndRespond(w http.ResponseWriter, r *http.Request, fn func(session.State) (session.State, error)) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	next, err := s.updateSession(r.Context(), id, fn)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(id, next))
}
