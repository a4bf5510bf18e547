package oidc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Endpoint identifies one IdP-facing or proxy-facing URL by its parts
// rather than a pre-built string, so the filter can both build the URL
// (redirect_uri, authorization/token endpoint targets) and compare an
// inbound request against it (spec §4.3.5).
type Endpoint struct {
	Scheme string
	Host   string
	Port   int // 0 means "no explicit port configured"
	Path   string
}

func (e Endpoint) isDefaultPort(port int) bool {
	return (e.Scheme == "https" && port == 443) || (e.Scheme == "http" && port == 80)
}

// hostHeader renders the host[:port] portion of the endpoint's URL,
// omitting the port exactly when it is the scheme's default (spec
// §4.3.5).
func (e Endpoint) hostHeader() string {
	if e.Port == 0 || e.isDefaultPort(e.Port) {
		return e.Host
	}
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// URL renders the full "<scheme>://<host>[:<port>]<path>" form used both as
// the redirect_uri parameter and as the basis of outbound requests.
func (e Endpoint) URL() string {
	return fmt.Sprintf("%s://%s%s", e.Scheme, e.hostHeader(), e.Path)
}

// MatchesCallbackRequest reports whether an inbound request's scheme, host
// (which may or may not carry an explicit port), and path (ignoring any
// query string) identify this endpoint. An empty request scheme is
// tolerated as https only when the rest of the comparison already
// matches, mirroring the original implementation's narrow default (spec
// §9 Open Question (a)); it is never applied as a general default
// elsewhere.
func (e Endpoint) MatchesCallbackRequest(reqScheme, reqHost, reqPath string) bool {
	if stripQuery(reqPath) != e.Path {
		return false
	}
	if !e.hostMatches(reqHost) {
		return false
	}
	scheme := reqScheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme == e.Scheme
}

func (e Endpoint) hostMatches(reqHost string) bool {
	host, portStr, err := net.SplitHostPort(reqHost)
	if err != nil {
		host = reqHost
		portStr = ""
	}
	if !strings.EqualFold(host, e.Host) {
		return false
	}
	if portStr == "" {
		// Request omitted the port; acceptable whenever the configured
		// endpoint either has no explicit port or uses the scheme default.
		return e.Port == 0 || e.isDefaultPort(e.Port)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	if e.Port == 0 {
		return e.isDefaultPort(port)
	}
	return port == e.Port
}

func stripQuery(path string) string {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		return path[:idx]
	}
	return path
}
