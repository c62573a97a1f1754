package web

import (
	"context"
	"net/http"
	"time"

	"bookadmin/internal/httpx"

	"go.uber.org/zap"
)

const readyTimeout = 2 * time.Second

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]string{"status": "ok"})
}

// readyz reports whether the bookstore API answers and the session store
// is reachable.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.api.Ping(ctx); err != nil {
		s.log.Warn("readiness: api unreachable", zap.Error(err))
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "API_UNAVAILABLE", "bookstore API is unreachable")
		return
	}
	if err := s.sessions.Ping(ctx); err != nil {
		s.log.Warn("readiness: session store unreachable", zap.Error(err))
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", "session store is unreachable")
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"status": "ready"})
}
