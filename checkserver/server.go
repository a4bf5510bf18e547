// Package checkserver hosts the check-protocol transport (out of scope of
// the core per spec §1: "the check-protocol transport server itself...
// thin and replaceable"). It speaks the forward-auth convention used by
// nginx's auth_request and Traefik's ForwardAuth: the proxy issues a
// sub-request carrying the original request's method/scheme/host/URI in
// X-Forwarded-* headers plus the original Cookie header, and interprets
// this server's status code and response headers as the decision.
package checkserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oidc-authz/filters"
)

// Server adapts filters.Selector to net/http, translating one inbound
// forward-auth sub-request into a checkapi.Request, dispatching it through
// the matched chain's filter, and translating the resulting decision back
// into an HTTP response (spec §6 "Check protocol (inbound)").
type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	selector *filters.Selector
}

// New builds a Server bound to selector. env controls only the DEV-mode
// route listing printed at startup (matching the teacher's own
// s.env != "DEV" gate in server/server.go).
func New(selector *filters.Selector, env string) *Server {
	s := &Server{env: env, mux: http.NewServeMux(), selector: selector}
	s.registerRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	fmt.Printf("[%s%s%s] %s\n", color, paddedMethod, ResetColor, path)
}
