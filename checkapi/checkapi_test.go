package checkapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
)

func TestRequest_HasHTTPAttributes(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		var req *checkapi.Request
		assert.False(t, req.HasHTTPAttributes())
	})

	t.Run("zero-value request", func(t *testing.T) {
		assert.False(t, (&checkapi.Request{}).HasHTTPAttributes())
	})

	t.Run("scheme only", func(t *testing.T) {
		assert.True(t, (&checkapi.Request{Scheme: "https"}).HasHTTPAttributes())
	})

	t.Run("host only", func(t *testing.T) {
		assert.True(t, (&checkapi.Request{Host: "example.com"}).HasHTTPAttributes())
	})

	t.Run("path only", func(t *testing.T) {
		assert.True(t, (&checkapi.Request{Path: "/"}).HasHTTPAttributes())
	})
}

func TestRequest_Header(t *testing.T) {
	req := &checkapi.Request{Headers: http.Header{"X-Foo": []string{"bar"}}}
	assert.Equal(t, "bar", req.Header("X-Foo"))
	assert.Equal(t, "", req.Header("X-Missing"))

	var nilReq *checkapi.Request
	assert.Equal(t, "", nilReq.Header("X-Foo"))
}

func TestStatus_String(t *testing.T) {
	cases := map[checkapi.Status]string{
		checkapi.StatusOK:             "OK",
		checkapi.StatusUnauthenticated: "UNAUTHENTICATED",
		checkapi.StatusInvalidArgument: "INVALID_ARGUMENT",
		checkapi.StatusInternal:        "INTERNAL",
		checkapi.Status(99):            "UNKNOWN",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestAllow(t *testing.T) {
	resp := checkapi.Allow(checkapi.HeaderValueOption{Name: "Authorization", Value: "Bearer xyz"})
	assert.True(t, resp.Allowed)
	assert.Equal(t, checkapi.StatusOK, resp.Status)
	assert.Equal(t, 0, resp.HTTPStatusCode)
	assert.Len(t, resp.Headers, 1)
}

func TestDeny(t *testing.T) {
	resp := checkapi.Deny(checkapi.StatusUnauthenticated, http.StatusFound, checkapi.HeaderValueOption{Name: "Location", Value: "https://idp.example.com/authorize"})
	assert.False(t, resp.Allowed)
	assert.Equal(t, checkapi.StatusUnauthenticated, resp.Status)
	assert.Equal(t, http.StatusFound, resp.HTTPStatusCode)
	assert.Len(t, resp.Headers, 1)
}
