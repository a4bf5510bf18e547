package checkserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
)

// handleCheck is the check-protocol endpoint (spec §6). It reads the
// forward-auth sub-request the proxy issues (Traefik's ForwardAuth / nginx's
// auth_request convention: original method/scheme/host/URI carried in
// X-Forwarded-* headers, original Cookie header proxied through unchanged),
// dispatches it through the matched chain, and translates the resulting
// checkapi.Response into this response's status code and headers.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req := &checkapi.Request{
		Scheme:  forwardedOrDefault(r, "X-Forwarded-Proto", requestScheme(r)),
		Host:    forwardedOrDefault(r, "X-Forwarded-Host", r.Host),
		Path:    forwardedOrDefault(r, "X-Forwarded-Uri", r.URL.RequestURI()),
		Method:  forwardedOrDefault(r, "X-Forwarded-Method", r.Method),
		Headers: r.Header,
	}

	chain, ok := s.selector.Select(req)
	if !ok {
		log.Info().Str("host", req.Host).Msg("checkserver: no chain matched request")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	filter, err := chain.New()
	if err != nil {
		log.Error().Err(err).Str("chain", chain.Name()).Msg("checkserver: failed to construct filter")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp, err := filter.Process(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("chain", chain.Name()).Msg("checkserver: filter returned an error")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeDecision(w, resp)
}

func writeDecision(w http.ResponseWriter, resp *checkapi.Response) {
	for _, h := range resp.Headers {
		w.Header().Add(h.Name, h.Value)
	}

	if resp.Allowed {
		w.WriteHeader(http.StatusOK)
		return
	}

	if resp.HTTPStatusCode != 0 {
		w.WriteHeader(resp.HTTPStatusCode)
		return
	}

	switch resp.Status {
	case checkapi.StatusInvalidArgument:
		w.WriteHeader(http.StatusBadRequest)
	case checkapi.StatusInternal:
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusUnauthorized)
	}
}

func forwardedOrDefault(r *http.Request, header, fallback string) string {
	if v := r.Header.Get(header); v != "" {
		return v
	}
	return fallback
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
