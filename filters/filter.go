// Package filters defines the polymorphic Filter/Chain abstractions (spec
// §9) and the chain-selection dispatcher (C6). The only Filter
// implementation that matters for this service lives in filters/oidc;
// a trivial pass-through variant lives alongside it in this package so
// Select/New can be exercised without a fully wired OIDC filter.
package filters

import (
	"context"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
)

// Filter is a per-check decision engine. Implementations are constructed
// fresh for every check by their owning Chain's New method and carry no
// state across checks.
type Filter interface {
	Name() string
	Process(ctx context.Context, req *checkapi.Request) (*checkapi.Response, error)
}

// Chain matches requests against a set of predicates and, on a match,
// constructs a fresh Filter bound to its configuration.
type Chain interface {
	Name() string
	Matches(req *checkapi.Request) bool
	New() (Filter, error)
}

// Predicate is one match condition evaluated against a check request.
type Predicate func(req *checkapi.Request) bool

// HeaderEquals matches when the named header is present and equal to value.
func HeaderEquals(name, value string) Predicate {
	return func(req *checkapi.Request) bool {
		if req == nil || len(req.Headers.Values(name)) == 0 {
			return false
		}
		return req.Header(name) == value
	}
}

// HostEquals matches when the request host equals value.
func HostEquals(value string) Predicate {
	return func(req *checkapi.Request) bool {
		return req.Host == value
	}
}

// PathHasPrefix matches when the request path starts with prefix.
func PathHasPrefix(prefix string) Predicate {
	return func(req *checkapi.Request) bool {
		return len(req.Path) >= len(prefix) && req.Path[:len(prefix)] == prefix
	}
}

// MatchAll returns true iff every predicate is satisfied; an empty set
// matches everything (spec §4.1).
func MatchAll(predicates []Predicate, req *checkapi.Request) bool {
	for _, p := range predicates {
		if !p(req) {
			return false
		}
	}
	return true
}
