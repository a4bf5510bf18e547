package checkserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
	"github.com/jrsteele09/go-oidc-authz/checkserver"
	"github.com/jrsteele09/go-oidc-authz/filters"
)

// fakeFilter and fakeChain let each test script the exact decision
// handleCheck should translate, without needing a fully wired OIDC chain.
type fakeFilter struct {
	resp    *checkapi.Response
	err     error
	lastReq *checkapi.Request
}

func (f *fakeFilter) Name() string { return "fake" }

func (f *fakeFilter) Process(_ context.Context, req *checkapi.Request) (*checkapi.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

type fakeChain struct {
	chainName  string
	predicates []filters.Predicate
	filter     *fakeFilter
	newErr     error
}

func (c *fakeChain) Name() string { return c.chainName }

func (c *fakeChain) Matches(req *checkapi.Request) bool {
	return filters.MatchAll(c.predicates, req)
}

func (c *fakeChain) New() (filters.Filter, error) {
	if c.newErr != nil {
		return nil, c.newErr
	}
	return c.filter, nil
}

func TestHandleCheck_NoMatchingChain(t *testing.T) {
	chain := &fakeChain{chainName: "never", predicates: []filters.Predicate{filters.HostEquals("nope.example.com")}}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleCheck_ChainConstructionError(t *testing.T) {
	chain := &fakeChain{chainName: "broken", newErr: errors.New("boom")}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCheck_FilterProcessError(t *testing.T) {
	filter := &fakeFilter{err: errors.New("boom")}
	chain := &fakeChain{chainName: "erroring", filter: filter}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCheck_Allowed(t *testing.T) {
	filter := &fakeFilter{resp: checkapi.Allow(checkapi.HeaderValueOption{Name: "Authorization", Value: "Bearer xyz"})}
	chain := &fakeChain{chainName: "allow", filter: filter}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer xyz", rec.Header().Get("Authorization"))
}

func TestHandleCheck_DeniedWithExplicitStatusCode(t *testing.T) {
	filter := &fakeFilter{resp: checkapi.Deny(checkapi.StatusUnauthenticated, http.StatusFound, checkapi.HeaderValueOption{Name: "Location", Value: "https://idp.example.com/authorize"})}
	chain := &fakeChain{chainName: "redirect", filter: filter}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))
}

func TestHandleCheck_DeniedStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status checkapi.Status
		want   int
	}{
		{"invalid argument maps to 400", checkapi.StatusInvalidArgument, http.StatusBadRequest},
		{"internal maps to 500", checkapi.StatusInternal, http.StatusInternalServerError},
		{"unauthenticated with no explicit code maps to 401", checkapi.StatusUnauthenticated, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := &fakeFilter{resp: checkapi.Deny(tc.status, 0)}
			chain := &fakeChain{chainName: "deny", filter: filter}
			srv := checkserver.New(filters.NewSelector(chain), "")

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestHandleCheck_ForwardedAttributes(t *testing.T) {
	filter := &fakeFilter{resp: checkapi.Allow()}
	chain := &fakeChain{chainName: "forwarded", filter: filter}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/local-path", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "app.example.com")
	req.Header.Set("X-Forwarded-Uri", "/original/path?x=1")
	req.Header.Set("X-Forwarded-Method", "POST")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.NotNil(t, filter.lastReq)
	assert.Equal(t, "https", filter.lastReq.Scheme)
	assert.Equal(t, "app.example.com", filter.lastReq.Host)
	assert.Equal(t, "/original/path?x=1", filter.lastReq.Path)
	assert.Equal(t, "POST", filter.lastReq.Method)
}

func TestHandleCheck_FallsBackWhenNoForwardedHeaders(t *testing.T) {
	filter := &fakeFilter{resp: checkapi.Allow()}
	chain := &fakeChain{chainName: "no-forwarded", filter: filter}
	srv := checkserver.New(filters.NewSelector(chain), "")

	req := httptest.NewRequest(http.MethodGet, "/direct-path", nil)
	req.Host = "direct.example.com"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.NotNil(t, filter.lastReq)
	assert.Equal(t, "http", filter.lastReq.Scheme)
	assert.Equal(t, "direct.example.com", filter.lastReq.Host)
	assert.Equal(t, "/direct-path", filter.lastReq.Path)
	assert.Equal(t, http.MethodGet, filter.lastReq.Method)
}

type panickingFilter struct{}

func (panickingFilter) Name() string { return "panicking" }

func (panickingFilter) Process(context.Context, *checkapi.Request) (*checkapi.Response, error) {
	panic("simulated filter panic")
}

func TestHandleCheck_RecoversFromPanic(t *testing.T) {
	chain := &fakeChain{chainName: "panics", filter: nil}
	// fakeChain.New returns c.filter directly; wrap it so Process panics
	// without having to special-case fakeChain's New method.
	srv := checkserver.New(filters.NewSelector(&panickingChain{chain}), "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickingChain struct {
	*fakeChain
}

func (c *panickingChain) New() (filters.Filter, error) {
	return panickingFilter{}, nil
}

func TestHealthz(t *testing.T) {
	srv := checkserver.New(filters.NewSelector(), "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
