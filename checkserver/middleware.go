package checkserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChainMiddleware composes middleware around a handler in application
// order: ChainMiddleware(h, a, b) runs a, then b, then h. Kept as the
// teacher's own std_middleware.go names and composes it.
func ChainMiddleware(h http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chained := h
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// recoverMiddleware converts a panic inside the filter chain into a 500
// instead of taking down the process; the check protocol has no notion of
// a partial decision, so any recovered panic is treated as StatusInternal.
func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("checkserver: recovered from panic")
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// loggingMiddleware emits one structured access-log line per check,
// tagged with a fresh request_id. That id is not passed on to the filter,
// which tags its own log lines with a separately generated check_id, so the
// access-log line and the filter's lines for one check share no id.
func loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("checkserver: handled check")
	}
}

// statusRecorder captures the status code a handler wrote so
// loggingMiddleware can report it, since http.ResponseWriter itself does
// not expose it after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
