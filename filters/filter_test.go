package filters_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
	"github.com/jrsteele09/go-oidc-authz/filters"
)

func TestPredicates(t *testing.T) {
	req := &checkapi.Request{
		Host: "app.example.com",
		Path: "/api/widgets",
		Headers: http.Header{
			"X-Tenant": []string{"acme"},
		},
	}

	t.Run("HostEquals", func(t *testing.T) {
		assert.True(t, filters.HostEquals("app.example.com")(req))
		assert.False(t, filters.HostEquals("other.example.com")(req))
	})

	t.Run("PathHasPrefix", func(t *testing.T) {
		assert.True(t, filters.PathHasPrefix("/api")(req))
		assert.False(t, filters.PathHasPrefix("/admin")(req))
	})

	t.Run("HeaderEquals", func(t *testing.T) {
		assert.True(t, filters.HeaderEquals("X-Tenant", "acme")(req))
		assert.False(t, filters.HeaderEquals("X-Tenant", "other")(req))
		assert.False(t, filters.HeaderEquals("X-Missing", "")(req))
	})
}

func TestMatchAll(t *testing.T) {
	req := &checkapi.Request{Host: "app.example.com", Path: "/api/widgets"}

	t.Run("empty predicate set matches everything", func(t *testing.T) {
		assert.True(t, filters.MatchAll(nil, req))
	})

	t.Run("all predicates must match", func(t *testing.T) {
		preds := []filters.Predicate{filters.HostEquals("app.example.com"), filters.PathHasPrefix("/api")}
		assert.True(t, filters.MatchAll(preds, req))
	})

	t.Run("one failing predicate fails the whole set", func(t *testing.T) {
		preds := []filters.Predicate{filters.HostEquals("app.example.com"), filters.PathHasPrefix("/admin")}
		assert.False(t, filters.MatchAll(preds, req))
	})
}

func TestAllowAllFilter(t *testing.T) {
	t.Run("allows a well-formed request", func(t *testing.T) {
		resp, err := filters.AllowAllFilter{}.Process(nil, &checkapi.Request{Host: "app.example.com", Path: "/"})
		assert.NoError(t, err)
		assert.True(t, resp.Allowed)
	})

	t.Run("denies a request with no http attributes", func(t *testing.T) {
		resp, err := filters.AllowAllFilter{}.Process(nil, &checkapi.Request{})
		assert.NoError(t, err)
		assert.False(t, resp.Allowed)
		assert.Equal(t, checkapi.StatusInvalidArgument, resp.Status)
	})
}

func TestAllowAllChain(t *testing.T) {
	chain := &filters.AllowAllChain{ChainName: "public", Predicates: []filters.Predicate{filters.PathHasPrefix("/healthz")}}

	assert.Equal(t, "public", chain.Name())
	assert.True(t, chain.Matches(&checkapi.Request{Path: "/healthz"}))
	assert.False(t, chain.Matches(&checkapi.Request{Path: "/other"}))

	f, err := chain.New()
	assert.NoError(t, err)
	assert.Equal(t, "allow-all", f.Name())
}
