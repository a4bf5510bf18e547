// Package checkapi defines the data model exchanged between the external
// check-protocol transport (out of scope of this repository) and the
// filter chain. It is intentionally small: the core only ever needs
// scheme/host/path/method and a header multimap on the way in, and a
// decision plus a short list of header directives on the way out.
package checkapi

import "net/http"

// Request is the subset of an inbound check that the core cares about.
// The transport server is responsible for populating this from whatever
// wire format it speaks (e.g. an Envoy ext_authz CheckRequest).
type Request struct {
	Scheme  string
	Host    string
	Path    string // includes the query string, if any
	Method  string
	Headers http.Header
}

// HasHTTPAttributes reports whether the request carries any HTTP identity
// at all. A check with none of these set is malformed (spec §4.3, point 0).
func (r *Request) HasHTTPAttributes() bool {
	if r == nil {
		return false
	}
	return r.Scheme != "" || r.Host != "" || r.Path != ""
}

// Header returns the first value of the named request header, or "".
func (r *Request) Header(name string) string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// HeaderValueOption is one header directive attached to a Response.
// Multiple options may share a Name — a Filter setting two cookies (e.g.
// the ID-token cookie and the state-cookie deletion) emits two Set-Cookie entries — and checkserver adds
// each rather than replacing, so none are lost.
type HeaderValueOption struct {
	Name  string
	Value string
}

// Status is the internal taxonomy of decisions, independent of whichever
// check-protocol status codes a transport implementation maps them to.
type Status int

const (
	// StatusOK permits the request to proceed.
	StatusOK Status = iota
	// StatusUnauthenticated denies and restarts authentication (a 302 to
	// the identity provider or to the logout target).
	StatusUnauthenticated
	// StatusInvalidArgument denies due to a protocol violation: a bad,
	// missing, or tampered cookie or query parameter.
	StatusInvalidArgument
	// StatusInternal denies due to a failure of an external collaborator
	// (e.g. the token endpoint could not be reached).
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusUnauthenticated:
		return "UNAUTHENTICATED"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Response is the decision produced by a Filter for one check.
type Response struct {
	Status         Status
	Allowed        bool
	HTTPStatusCode int // meaningful only when Allowed is false; 0 otherwise
	Headers        []HeaderValueOption
}

// Allow builds an OK decision carrying header additions for the proxy to
// inject into the upstream request (e.g. Authorization).
func Allow(headers ...HeaderValueOption) *Response {
	return &Response{Status: StatusOK, Allowed: true, Headers: headers}
}

// Deny builds a denial with the given internal status and HTTP status code
// the check protocol should report (302 for redirects).
func Deny(status Status, httpStatusCode int, headers ...HeaderValueOption) *Response {
	return &Response{Status: status, Allowed: false, HTTPStatusCode: httpStatusCode, Headers: headers}
}
