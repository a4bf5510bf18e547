package checkserver

import "net/http"

// handleHealthz is an unauthenticated liveness probe; it never touches the
// filter chain (spec §1's concurrency model reserves the filter engine for
// checks, not process health).
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
