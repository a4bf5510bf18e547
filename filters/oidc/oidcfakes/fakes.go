// Package oidcfakes holds hand-written deterministic fakes for the OIDC
// filter's collaborators (C2, C3, C4), matching the shape of the teacher's
// own repofakes packages (struct + sync.Mutex + constructor): no
// mocking-framework generated code, just the smallest implementation of
// each interface that lets a test script its behavior.
package oidcfakes

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-oidc-authz/filters/oidc"
	"github.com/jrsteele09/go-oidc-authz/httpclient"
	"github.com/jrsteele09/go-oidc-authz/session"
)

// FakeEncryptor implements session.Encryptor with a reversible, deterministic
// mapping instead of real cryptography: Encrypt prefixes the plaintext with
// a counter so repeat calls on the same plaintext are never byte-identical
// (mirroring the real encryptor's random-nonce behavior), and Decrypt only
// succeeds for ciphertext this fake itself produced.
type FakeEncryptor struct {
	mu      sync.Mutex
	seq     int
	sealed  map[string]string
	FailNth int // if > 0, the FailNth call to Decrypt returns ok=false regardless of input
	calls   int
}

var _ session.Encryptor = (*FakeEncryptor)(nil)

func NewFakeEncryptor() *FakeEncryptor {
	return &FakeEncryptor{sealed: make(map[string]string)}
}

func (f *FakeEncryptor) Encrypt(plaintext string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ciphertext := fmt.Sprintf("fake-sealed-%d-%s", f.seq, plaintext)
	f.sealed[ciphertext] = plaintext
	return ciphertext
}

func (f *FakeEncryptor) Decrypt(ciphertext string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailNth > 0 && f.calls == f.FailNth {
		return "", false
	}
	plaintext, ok := f.sealed[ciphertext]
	return plaintext, ok
}

// FakeHTTPClient implements httpclient.Client, returning a preprogrammed
// response (or ok=false) and recording the last request it was given so a
// test can assert on the outbound token request's shape.
type FakeHTTPClient struct {
	mu          sync.Mutex
	Response    *http.Response
	OK          bool
	LastRequest *http.Request
}

var _ httpclient.Client = (*FakeHTTPClient)(nil)

func NewFakeHTTPClient(resp *http.Response, ok bool) *FakeHTTPClient {
	return &FakeHTTPClient{Response: resp, OK: ok}
}

func (f *FakeHTTPClient) Do(_ context.Context, req *http.Request) (*http.Response, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRequest = req
	return f.Response, f.OK
}

// FakeTokenParser implements oidc.TokenParser, returning a preprogrammed
// result regardless of input and recording the arguments it was last called
// with so a test can assert the filter passed through the expected nonce
// and client ID.
type FakeTokenParser struct {
	mu           sync.Mutex
	Response     *oidc.TokenResponse
	OK           bool
	LastNonce    string
	LastClientID string
	LastBody     []byte
}

var _ oidc.TokenParser = (*FakeTokenParser)(nil)

func NewFakeTokenParser(resp *oidc.TokenResponse, ok bool) *FakeTokenParser {
	return &FakeTokenParser{Response: resp, OK: ok}
}

func (f *FakeTokenParser) Parse(_ context.Context, clientID, expectedNonce string, rawBody []byte) (*oidc.TokenResponse, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastClientID = clientID
	f.LastNonce = expectedNonce
	f.LastBody = rawBody
	return f.Response, f.OK
}
