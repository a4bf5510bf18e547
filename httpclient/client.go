// Package httpclient provides the outbound HTTP collaborator (C3) used to
// reach the identity provider's token endpoint. It is deliberately thin:
// the core only ever issues one POST per callback and needs to know
// whether it got a response at all.
package httpclient

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Client performs one request and reports ok=false on any transport
// failure, including the context being cancelled or deadlined. It must be
// safe for concurrent use.
type Client interface {
	Do(ctx context.Context, req *http.Request) (resp *http.Response, ok bool)
}

// StdClient adapts a *http.Client to the Client interface. The zero value
// is not usable; construct with NewStdClient.
type StdClient struct {
	inner *http.Client
}

// NewStdClient wraps c, which must already be configured with whatever
// timeout/transport policy the deployment requires (the core imposes none
// of its own beyond the caller-supplied context).
func NewStdClient(c *http.Client) *StdClient {
	return &StdClient{inner: c}
}

func (c *StdClient) Do(ctx context.Context, req *http.Request) (*http.Response, bool) {
	resp, err := c.inner.Do(req.WithContext(ctx))
	if err != nil {
		log.Info().Err(err).Str("url", req.URL.String()).Msg("httpclient: token endpoint request failed")
		return nil, false
	}
	return resp, true
}

var _ Client = (*StdClient)(nil)
