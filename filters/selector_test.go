package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
	"github.com/jrsteele09/go-oidc-authz/filters"
)

func TestSelector_Select(t *testing.T) {
	tenantA := &filters.AllowAllChain{ChainName: "tenant-a", Predicates: []filters.Predicate{filters.HostEquals("a.example.com")}}
	tenantB := &filters.AllowAllChain{ChainName: "tenant-b", Predicates: []filters.Predicate{filters.HostEquals("b.example.com")}}
	fallback := &filters.AllowAllChain{ChainName: "fallback"}

	selector := filters.NewSelector(tenantA, tenantB, fallback)

	t.Run("matches the first chain whose predicates hold", func(t *testing.T) {
		chain, ok := selector.Select(&checkapi.Request{Host: "b.example.com"})
		assert.True(t, ok)
		assert.Equal(t, "tenant-b", chain.Name())
	})

	t.Run("falls through to a later unconditional chain", func(t *testing.T) {
		chain, ok := selector.Select(&checkapi.Request{Host: "unknown.example.com"})
		assert.True(t, ok)
		assert.Equal(t, "fallback", chain.Name())
	})

	t.Run("reports no match when no chain configured", func(t *testing.T) {
		empty := filters.NewSelector()
		_, ok := empty.Select(&checkapi.Request{Host: "anything"})
		assert.False(t, ok)
	})
}
