package filters

import "github.com/jrsteele09/go-oidc-authz/checkapi"

// Selector holds a configured, ordered list of chains and picks the first
// one whose predicates all match a given check (C6, spec §4.1).
type Selector struct {
	chains []Chain
}

// NewSelector builds a Selector over chains, preserving configuration order:
// the first matching chain wins.
func NewSelector(chains ...Chain) *Selector {
	return &Selector{chains: chains}
}

// Select returns the first matching chain, or false if none match.
func (s *Selector) Select(req *checkapi.Request) (Chain, bool) {
	for _, c := range s.chains {
		if c.Matches(req) {
			return c, true
		}
	}
	return nil, false
}
