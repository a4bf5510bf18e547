package oidc

import (
	"io"
	"time"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
	"github.com/jrsteele09/go-oidc-authz/filters"
	"github.com/jrsteele09/go-oidc-authz/httpclient"
	"github.com/jrsteele09/go-oidc-authz/session"
)

// Chain is the filters.Chain implementation that binds a matched request to
// an OIDC filter (spec §4.1: "the only filter variant in the core is the
// OIDC filter"). Its collaborators (encryptor, HTTP client, parser) are
// constructed once and shared across every check that matches; only the
// Filter itself is built fresh per New() call, per spec §9's "per-request
// state" note.
type Chain struct {
	name       string
	predicates []filters.Predicate
	cfg        FilterConfig
	encryptor  session.Encryptor
	httpClient httpclient.Client
	parser     TokenParser

	// rng/now are nil in production, set only by tests that need
	// determinism (spec §9 "RNG").
	rng io.Reader
	now func() time.Time
}

// NewChain builds a Chain. encryptor, httpClient, and parser are the
// injected collaborators (C2/C3/C4) spec §9 requires be replaceable.
func NewChain(name string, predicates []filters.Predicate, cfg FilterConfig, encryptor session.Encryptor, httpClient httpclient.Client, parser TokenParser) *Chain {
	return &Chain{name: name, predicates: predicates, cfg: cfg, encryptor: encryptor, httpClient: httpClient, parser: parser}
}

// WithDeterministicSource overrides the RNG and clock used by every Filter
// this chain constructs. It exists for tests (spec §9: "tests inject a
// deterministic source") and is never called from production wiring.
func (c *Chain) WithDeterministicSource(rng io.Reader, now func() time.Time) *Chain {
	c.rng = rng
	c.now = now
	return c
}

func (c *Chain) Name() string {
	if c.name != "" {
		return c.name
	}
	return c.cfg.Name
}

func (c *Chain) Matches(req *checkapi.Request) bool {
	return filters.MatchAll(c.predicates, req)
}

// New builds a fresh Filter that reports this chain's Name, so its log lines
// carry the chain's name.
func (c *Chain) New() (filters.Filter, error) {
	cfg := c.cfg
	cfg.Name = c.Name()
	return New(cfg, c.encryptor, c.httpClient, c.parser, c.rng, c.now), nil
}

var _ filters.Chain = (*Chain)(nil)
