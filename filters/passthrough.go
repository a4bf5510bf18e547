package filters

import (
	"context"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
)

// AllowAllFilter is a trivial Filter variant that permits every well-formed
// request; a check with no HTTP attributes is denied as INVALID_ARGUMENT.
// It exists to demonstrate that Filter/Chain dispatch is
// polymorphic rather than hard-wired to the OIDC filter (spec §9), and is
// useful for chains that front genuinely public paths (health checks,
// static assets) without paying for an OIDC round trip.
type AllowAllFilter struct{}

func (AllowAllFilter) Name() string { return "allow-all" }

func (AllowAllFilter) Process(_ context.Context, req *checkapi.Request) (*checkapi.Response, error) {
	if !req.HasHTTPAttributes() {
		return checkapi.Deny(checkapi.StatusInvalidArgument, 0), nil
	}
	return checkapi.Allow(), nil
}

// AllowAllChain matches requests by predicate and always constructs an
// AllowAllFilter.
type AllowAllChain struct {
	ChainName  string
	Predicates []Predicate
}

func (c *AllowAllChain) Name() string { return c.ChainName }

func (c *AllowAllChain) Matches(req *checkapi.Request) bool {
	return MatchAll(c.Predicates, req)
}

func (c *AllowAllChain) New() (Filter, error) {
	return AllowAllFilter{}, nil
}
