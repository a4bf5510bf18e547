// Package oidc implements the OIDC filter state machine (C5), its token
// response parser (C4), and the small collaborators (C1 cookie codec,
// endpoint matching) it depends on. This is the core of the service (spec
// §1): a per-check decision engine instantiated fresh for every check and
// destroyed once it returns a decision.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-authz/checkapi"
	"github.com/jrsteele09/go-oidc-authz/httpclient"
	apierrors "github.com/jrsteele09/go-oidc-authz/internal/errors"
	"github.com/jrsteele09/go-oidc-authz/oauth2"
	"github.com/jrsteele09/go-oidc-authz/session"
)

// NowTimeFunc-style override point, kept as a struct field rather than a
// package var (unlike the teacher's token/jwt/creator.go) because each
// configured chain constructs its own Filter and tests commonly need
// different clocks for different chains in the same process.
type clockFunc func() time.Time

// Filter is the OIDC implementation of filters.Filter (C5). It is cheap to
// construct: everything expensive (the HTTP client, the encryptor, the
// token-response parser) is a shared collaborator injected once per chain,
// not per check.
type Filter struct {
	cfg        FilterConfig
	encryptor  session.Encryptor
	httpClient httpclient.Client
	parser     TokenParser
	rng        io.Reader
	now        clockFunc
}

// New constructs a Filter. rng and now may be nil, defaulting to
// crypto/rand.Reader and time.Now respectively; tests override both for
// determinism (spec §9: "tests inject a deterministic source").
func New(cfg FilterConfig, encryptor session.Encryptor, httpClient httpclient.Client, parser TokenParser, rng io.Reader, now func() time.Time) *Filter {
	if rng == nil {
		rng = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Filter{cfg: cfg, encryptor: encryptor, httpClient: httpClient, parser: parser, rng: rng, now: now}
}

func (f *Filter) Name() string {
	if f.cfg.Name != "" {
		return f.cfg.Name
	}
	return "oidc"
}

// Process dispatches a single check through the state machine described in
// spec §4.3.
func (f *Filter) Process(ctx context.Context, req *checkapi.Request) (*checkapi.Response, error) {
	correlationID := uuid.New().String()
	logger := log.With().Str("filter", f.Name()).Str("check_id", correlationID).Logger()

	if !req.HasHTTPAttributes() {
		logger.Info().Err(apierrors.ErrNoHTTPAttributes).Msg("oidc: check carries no http attributes")
		return checkapi.Deny(checkapi.StatusInvalidArgument, 0), nil
	}

	path := stripQuery(req.Path)

	if f.cfg.logoutConfigured() && path == f.cfg.LogoutPath {
		logger.Info().Msg("oidc: logout hit")
		return f.logout(), nil
	}

	if f.cfg.Callback.MatchesCallbackRequest(req.Scheme, req.Host, req.Path) {
		logger.Info().Msg("oidc: callback hit")
		return f.callback(ctx, req, logger)
	}

	if idToken, accessToken, ok := f.authenticatedTokens(req); ok {
		return f.allow(idToken, accessToken), nil
	}

	logger.Info().Msg("oidc: unauthenticated, starting authorization code flow")
	return f.startAuthentication()
}

// --- Logout (spec §4.3 point 1) ---

func (f *Filter) logout() *checkapi.Response {
	headers := []checkapi.HeaderValueOption{
		{Name: "Location", Value: f.cfg.LogoutRedirectToURI},
		{Name: "Cache-Control", Value: "no-cache"},
		{Name: "Pragma", Value: "no-cache"},
		f.deleteCookieHeaderOpt(CookieRoleState),
		f.deleteCookieHeaderOpt(CookieRoleIDToken),
		f.deleteCookieHeaderOpt(CookieRoleAccessToken),
	}
	return checkapi.Deny(checkapi.StatusUnauthenticated, http.StatusFound, headers...)
}

// --- Authenticated allow (spec §4.3.2) ---

func (f *Filter) authenticatedTokens(req *checkapi.Request) (idToken, accessToken string, ok bool) {
	cookies := cookiesFromHeader(req.Headers.Values("Cookie"))

	idCookie, present := cookies[f.cfg.cookieName(CookieRoleIDToken)]
	if !present {
		return "", "", false
	}
	idToken, ok = f.encryptor.Decrypt(idCookie)
	if !ok {
		return "", "", false
	}

	if !f.cfg.accessTokenConfigured() {
		return idToken, "", true
	}

	accessCookie, present := cookies[f.cfg.cookieName(CookieRoleAccessToken)]
	if !present {
		return "", "", false
	}
	accessToken, ok = f.encryptor.Decrypt(accessCookie)
	if !ok {
		return "", "", false
	}
	return idToken, accessToken, true
}

func (f *Filter) allow(idToken, accessToken string) *checkapi.Response {
	headers := []checkapi.HeaderValueOption{
		{Name: f.cfg.IDTokenHeader, Value: encodeHeaderValue(f.cfg.IDTokenPreamble, idToken)},
	}
	if f.cfg.accessTokenConfigured() {
		headers = append(headers, checkapi.HeaderValueOption{Name: f.cfg.AccessTokenHeader, Value: accessToken})
	}
	return checkapi.Allow(headers...)
}

func encodeHeaderValue(preamble, value string) string {
	if preamble == "" {
		return value
	}
	return preamble + " " + value
}

// --- Start-authentication (spec §4.3.3) ---

func (f *Filter) startAuthentication() (*checkapi.Response, error) {
	state, err := f.randomToken()
	if err != nil {
		return nil, fmt.Errorf("oidc: start-authentication: %w", err)
	}
	nonce, err := f.randomToken()
	if err != nil {
		return nil, fmt.Errorf("oidc: start-authentication: %w", err)
	}

	stateCookieValue := f.encryptor.Encrypt(state + ";" + nonce)
	authURL := f.buildAuthorizationURL(state, nonce)

	headers := []checkapi.HeaderValueOption{
		{Name: "Location", Value: authURL},
		{Name: "Cache-Control", Value: "no-cache"},
		{Name: "Pragma", Value: "no-cache"},
		f.setCookieHeaderOpt(CookieRoleState, stateCookieValue, f.cfg.timeoutSeconds()),
	}
	return checkapi.Deny(checkapi.StatusUnauthenticated, http.StatusFound, headers...), nil
}

// randomToken draws 32 bytes from the configured RNG and base64url-encodes
// them (no padding), producing the 43-character state/nonce values spec §4.3.3
// requires.
func (f *Filter) randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(f.rng, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// buildAuthorizationURL relies on url.Values.Encode's alphabetical key
// ordering to produce the exact parameter order spec §4.3.3 mandates:
// client_id, nonce, redirect_uri, response_type, scope, state.
func (f *Filter) buildAuthorizationURL(state, nonce string) string {
	v := url.Values{}
	v.Set("client_id", f.cfg.ClientID)
	v.Set("nonce", nonce)
	v.Set("redirect_uri", f.cfg.Callback.URL())
	v.Set("response_type", string(oauth2.CodeResponseType))
	v.Set("scope", "openid")
	v.Set("state", state)
	return f.cfg.Authorization.URL() + "?" + v.Encode()
}

// --- Callback (spec §4.3.1) ---

func (f *Filter) callback(ctx context.Context, req *checkapi.Request, logger zerolog.Logger) (*checkapi.Response, error) {
	cookies := cookiesFromHeader(req.Headers.Values("Cookie"))

	stateCookieValue, present := cookies[f.cfg.cookieName(CookieRoleState)]
	if !present {
		logger.Info().Err(apierrors.ErrMissingStateCookie).Msg("oidc: callback missing state cookie")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	plaintext, ok := f.encryptor.Decrypt(stateCookieValue)
	if !ok {
		logger.Info().Err(apierrors.ErrInvalidStateCookie).Msg("oidc: callback state cookie failed to decrypt")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	expectedState, expectedNonce, ok := splitStateNonce(plaintext)
	if !ok {
		logger.Info().Err(apierrors.ErrMalformedStateValue).Msg("oidc: callback state cookie plaintext is malformed")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	query := parseQuery(req.Path)
	code := query.Get("code")
	if code == "" {
		logger.Info().Err(apierrors.ErrMissingCode).Msg("oidc: callback missing code query parameter")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}
	queryState := query.Get("state")
	if queryState == "" {
		logger.Info().Err(apierrors.ErrMissingState).Msg("oidc: callback missing state query parameter")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}
	if queryState != expectedState {
		logger.Info().Err(apierrors.ErrStateMismatch).Msg("oidc: callback state query parameter does not match state cookie")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	tokenReq, err := f.buildTokenRequest(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oidc: callback: %w", err)
	}

	resp, ok := f.httpClient.Do(ctx, tokenReq)
	if !ok {
		logger.Info().Err(apierrors.ErrTokenEndpointUnreachable).Msg("oidc: callback token endpoint was unreachable")
		return f.callbackDeny(checkapi.StatusInternal), nil
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Info().Err(err).Msg("oidc: callback failed to read token endpoint response body")
		return f.callbackDeny(checkapi.StatusInternal), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Info().Err(apierrors.ErrTokenResponseBad).Int("status_code", resp.StatusCode).Msg("oidc: callback token endpoint returned a non-2xx status")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	tokenResp, ok := f.parser.Parse(ctx, f.cfg.ClientID, expectedNonce, rawBody)
	if !ok {
		logger.Info().Err(apierrors.ErrTokenResponseBad).Msg("oidc: callback token response failed to parse or validate")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	if f.cfg.accessTokenConfigured() && !tokenResp.HasAccessToken {
		logger.Info().Err(apierrors.ErrMissingAccessToken).Msg("oidc: callback token response is missing the required access token")
		return f.callbackDeny(checkapi.StatusInvalidArgument), nil
	}

	logAccessTokenExpiryHint(logger, tokenResp.AccessToken)

	maxAge := maxAgeUntil(f.now(), tokenResp.Expiry)
	headers := []checkapi.HeaderValueOption{
		{Name: "Location", Value: f.cfg.LandingPage},
		{Name: "Cache-Control", Value: "no-cache"},
		{Name: "Pragma", Value: "no-cache"},
		f.setCookieHeaderOpt(CookieRoleIDToken, f.encryptor.Encrypt(tokenResp.RawIDToken), maxAge),
	}
	if f.cfg.accessTokenConfigured() {
		headers = append(headers, f.setCookieHeaderOpt(CookieRoleAccessToken, f.encryptor.Encrypt(tokenResp.AccessToken), maxAge))
	}
	headers = append(headers, f.deleteCookieHeaderOpt(CookieRoleState))

	logger.Info().Msg("oidc: callback succeeded")
	return checkapi.Deny(checkapi.StatusUnauthenticated, http.StatusFound, headers...), nil
}

// callbackDeny builds the uniform error shape every callback early-exit
// shares: standard cache headers and exactly one Set-Cookie deleting the
// state cookie (spec §8 invariant 3).
func (f *Filter) callbackDeny(status checkapi.Status) *checkapi.Response {
	headers := []checkapi.HeaderValueOption{
		{Name: "Cache-Control", Value: "no-cache"},
		{Name: "Pragma", Value: "no-cache"},
		f.deleteCookieHeaderOpt(CookieRoleState),
	}
	return checkapi.Deny(status, 0, headers...)
}

func (f *Filter) buildTokenRequest(ctx context.Context, code string) (*http.Request, error) {
	form := url.Values{}
	form.Set("grant_type", string(oauth2.AuthorizationCodeGrant))
	form.Set("code", code)
	form.Set("redirect_uri", f.cfg.Callback.URL())
	form.Set("client_id", f.cfg.ClientID)
	form.Set("client_secret", f.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Token.URL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(f.cfg.ClientID, f.cfg.ClientSecret)
	return req, nil
}

// --- cookie helpers ---

func (f *Filter) setCookieHeaderOpt(role CookieRole, value string, maxAgeSeconds int64) checkapi.HeaderValueOption {
	return checkapi.HeaderValueOption{Name: "Set-Cookie", Value: setCookieHeader(f.cfg.cookieName(role), value, maxAgeSeconds)}
}

func (f *Filter) deleteCookieHeaderOpt(role CookieRole) checkapi.HeaderValueOption {
	return checkapi.HeaderValueOption{Name: "Set-Cookie", Value: deleteCookieHeader(f.cfg.cookieName(role))}
}

func splitStateNonce(plaintext string) (state, nonce string, ok bool) {
	parts := strings.Split(plaintext, ";")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseQuery(path string) url.Values {
	idx := strings.IndexByte(path, '?')
	if idx < 0 {
		return url.Values{}
	}
	values, err := url.ParseQuery(path[idx+1:])
	if err != nil {
		return url.Values{}
	}
	return values
}

func maxAgeUntil(now, expiry time.Time) int64 {
	d := expiry.Sub(now)
	if d < 0 {
		return 0
	}
	return int64(d.Seconds())
}
