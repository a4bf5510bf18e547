package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/jrsteele09/go-oidc-authz/filters"
	"github.com/jrsteele09/go-oidc-authz/filters/oidc"
	"github.com/jrsteele09/go-oidc-authz/httpclient"
	"github.com/jrsteele09/go-oidc-authz/session"
)

const (
	chainsConfigFileVar = "CHAINS_CONFIG_FILE"
	defaultChainsFile   = "chains.json"
)

// FilterChainConfig is the collaborator that turns the chains config file
// into a ready-to-use filters.Selector: constructing the shared encryptor
// (C2), HTTP client (C3), and per-chain token-response parser (C4), then
// wrapping each chain's oidc.FilterConfig in an oidc.Chain (spec §6, §9
// "collaborator injection").
type FilterChainConfig interface {
	Load(ctx context.Context) (*filters.Selector, error)
}

// Chains implements FilterChainConfig by reading a JSON document from the
// path named by CHAINS_CONFIG_FILE (default "chains.json"), matching the
// teacher's own pattern of one small env-driven loader per configuration
// concern.
type Chains struct {
	Path string
}

var _ FilterChainConfig = Chains{}

// fileConfig is the on-disk shape of the chains config file.
type fileConfig struct {
	CryptorSecret      string        `json:"cryptor_secret"`
	JWKSURI            string        `json:"jwks_uri"`
	JWKS               string        `json:"jwks"`
	HTTPTimeoutSeconds int           `json:"http_timeout_seconds"`
	Chains             []chainConfig `json:"chains"`
	AllowAllPaths      []string      `json:"allow_all_paths"`
}

type matchConfig struct {
	Host       string `json:"host"`
	PathPrefix string `json:"path_prefix"`
	Header     struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"header"`
}

type endpointConfig struct {
	Scheme string `json:"scheme"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Path   string `json:"path"`
}

func (e endpointConfig) toEndpoint() oidc.Endpoint {
	return oidc.Endpoint{Scheme: e.Scheme, Host: e.Host, Port: e.Port, Path: e.Path}
}

type chainConfig struct {
	Name  string      `json:"name"`
	Match matchConfig `json:"match"`

	JWKSURI string `json:"jwks_uri"`
	JWKS    string `json:"jwks"`

	Authorization endpointConfig `json:"authorization"`
	Token         endpointConfig `json:"token"`
	Callback      endpointConfig `json:"callback"`

	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	LandingPage      string `json:"landing_page"`
	CookieNamePrefix string `json:"cookie_name_prefix"`

	IDTokenHeader     string `json:"id_token_header"`
	IDTokenPreamble   string `json:"id_token_preamble"`
	AccessTokenHeader string `json:"access_token_header"`

	TimeoutSeconds int64 `json:"timeout_seconds"`

	LogoutPath          string `json:"logout_path"`
	LogoutRedirectToURI string `json:"logout_redirect_to_uri"`
}

func (c chainConfig) predicates() []filters.Predicate {
	var preds []filters.Predicate
	if c.Match.Host != "" {
		preds = append(preds, filters.HostEquals(c.Match.Host))
	}
	if c.Match.PathPrefix != "" {
		preds = append(preds, filters.PathHasPrefix(c.Match.PathPrefix))
	}
	if c.Match.Header.Name != "" {
		preds = append(preds, filters.HeaderEquals(c.Match.Header.Name, c.Match.Header.Value))
	}
	return preds
}

func (c chainConfig) filterConfig() oidc.FilterConfig {
	return oidc.FilterConfig{
		Name:                c.Name,
		Authorization:       c.Authorization.toEndpoint(),
		Token:               c.Token.toEndpoint(),
		Callback:            c.Callback.toEndpoint(),
		ClientID:            c.ClientID,
		ClientSecret:        c.ClientSecret,
		LandingPage:         c.LandingPage,
		CookieNamePrefix:    c.CookieNamePrefix,
		IDTokenHeader:       c.IDTokenHeader,
		IDTokenPreamble:     c.IDTokenPreamble,
		AccessTokenHeader:   c.AccessTokenHeader,
		Timeout:             time.Duration(c.TimeoutSeconds) * time.Second,
		LogoutPath:          c.LogoutPath,
		LogoutRedirectToURI: c.LogoutRedirectToURI,
	}
}

// Load reads and validates the chains config file, then builds one
// filters.Chain per entry, returning them wrapped in a filters.Selector
// (spec §4.1: "the first chain whose Match is true"). The allow_all_paths
// chains come first, so a public path is never shadowed by a catch-all OIDC
// chain; the OIDC chains follow in file order.
func (c Chains) Load(ctx context.Context) (*filters.Selector, error) {
	path := c.Path
	if path == "" {
		path = GetEnv(chainsConfigFileVar, defaultChainsFile)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read chains config %q: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("config: failed to parse chains config %q: %w", path, err)
	}
	if len(fc.Chains) == 0 {
		return nil, fmt.Errorf("config: chains config %q defines no chains", path)
	}

	encryptor, err := session.NewAEADEncryptor([]byte(fc.CryptorSecret))
	if err != nil {
		return nil, fmt.Errorf("config: failed to build session encryptor: %w", err)
	}

	timeout := time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := httpclient.NewStdClient(&http.Client{Timeout: timeout})

	chains := make([]filters.Chain, 0, len(fc.AllowAllPaths)+len(fc.Chains))
	for _, pathPrefix := range fc.AllowAllPaths {
		chains = append(chains, &filters.AllowAllChain{ChainName: "allow-all:" + pathPrefix, Predicates: []filters.Predicate{filters.PathHasPrefix(pathPrefix)}})
	}

	for _, cc := range fc.Chains {
		verifier, err := buildVerifier(ctx, fc, cc)
		if err != nil {
			return nil, fmt.Errorf("config: chain %q: %w", cc.Name, err)
		}
		parser := oidc.NewTokenResponseParser(verifier, nil)
		chains = append(chains, oidc.NewChain(cc.Name, cc.predicates(), cc.filterConfig(), encryptor, httpClient, parser))
	}

	return filters.NewSelector(chains...), nil
}

// buildVerifier resolves, in order of preference: a chain-level static
// JWKS, a chain-level jwks_uri, a document-level static JWKS, or the
// document-level jwks_uri (spec §6: "jwks_uri.*, jwks — JWKS source used by
// C4").
func buildVerifier(ctx context.Context, fc fileConfig, cc chainConfig) (*gooidc.IDTokenVerifier, error) {
	switch {
	case cc.JWKS != "":
		return oidc.NewStaticVerifier([]byte(cc.JWKS), cc.ClientID)
	case cc.JWKSURI != "":
		return oidc.NewRemoteVerifier(ctx, cc.JWKSURI, cc.ClientID), nil
	case fc.JWKS != "":
		return oidc.NewStaticVerifier([]byte(fc.JWKS), cc.ClientID)
	case fc.JWKSURI != "":
		return oidc.NewRemoteVerifier(ctx, fc.JWKSURI, cc.ClientID), nil
	default:
		return nil, fmt.Errorf("no jwks or jwks_uri configured")
	}
}
