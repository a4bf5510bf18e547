package oidc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrsteele09/go-oidc-authz/filters/oidc"
)

func TestEndpoint_URL(t *testing.T) {
	t.Run("default https port omitted", func(t *testing.T) {
		e := oidc.Endpoint{Scheme: "https", Host: "authz.example.com", Path: "/callback"}
		assert.Equal(t, "https://authz.example.com/callback", e.URL())
	})

	t.Run("explicit non-default port kept", func(t *testing.T) {
		e := oidc.Endpoint{Scheme: "https", Host: "authz.example.com", Port: 8443, Path: "/callback"}
		assert.Equal(t, "https://authz.example.com:8443/callback", e.URL())
	})

	t.Run("explicit default port omitted", func(t *testing.T) {
		e := oidc.Endpoint{Scheme: "https", Host: "authz.example.com", Port: 443, Path: "/callback"}
		assert.Equal(t, "https://authz.example.com/callback", e.URL())
	})

	t.Run("http default port omitted", func(t *testing.T) {
		e := oidc.Endpoint{Scheme: "http", Host: "authz.example.com", Port: 80, Path: "/callback"}
		assert.Equal(t, "http://authz.example.com/callback", e.URL())
	})
}

func TestEndpoint_MatchesCallbackRequest(t *testing.T) {
	e := oidc.Endpoint{Scheme: "https", Host: "authz.example.com", Path: "/callback"}

	t.Run("exact match", func(t *testing.T) {
		assert.True(t, e.MatchesCallbackRequest("https", "authz.example.com", "/callback"))
	})

	t.Run("query string ignored", func(t *testing.T) {
		assert.True(t, e.MatchesCallbackRequest("https", "authz.example.com", "/callback?code=abc&state=xyz"))
	})

	t.Run("empty scheme tolerated as https when host and path match", func(t *testing.T) {
		assert.True(t, e.MatchesCallbackRequest("", "authz.example.com", "/callback"))
	})

	t.Run("http scheme rejected", func(t *testing.T) {
		assert.False(t, e.MatchesCallbackRequest("http", "authz.example.com", "/callback"))
	})

	t.Run("wrong path rejected", func(t *testing.T) {
		assert.False(t, e.MatchesCallbackRequest("https", "authz.example.com", "/other"))
	})

	t.Run("wrong host rejected", func(t *testing.T) {
		assert.False(t, e.MatchesCallbackRequest("https", "evil.example.com", "/callback"))
	})

	t.Run("host header carrying default port still matches", func(t *testing.T) {
		assert.True(t, e.MatchesCallbackRequest("https", "authz.example.com:443", "/callback"))
	})

	t.Run("host header carrying non-default port rejected", func(t *testing.T) {
		assert.False(t, e.MatchesCallbackRequest("https", "authz.example.com:8443", "/callback"))
	})

	t.Run("host case-insensitive", func(t *testing.T) {
		assert.True(t, e.MatchesCallbackRequest("https", "AUTHZ.EXAMPLE.COM", "/callback"))
	})

	t.Run("explicit non-default port endpoint requires matching port", func(t *testing.T) {
		withPort := oidc.Endpoint{Scheme: "https", Host: "authz.example.com", Port: 8443, Path: "/callback"}
		assert.True(t, withPort.MatchesCallbackRequest("https", "authz.example.com:8443", "/callback"))
		assert.False(t, withPort.MatchesCallbackRequest("https", "authz.example.com", "/callback"))
	})
}
