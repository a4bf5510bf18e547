package oidc

import "time"

// FilterConfig carries the per-chain configuration surface described in
// spec §6. It is the OIDC analogue of the original's OIDCConfig proto
// message, expressed as a plain Go struct so config.Chains can build one
// per configured chain without any code generation step.
type FilterConfig struct {
	Name string

	Authorization Endpoint
	Token         Endpoint
	Callback      Endpoint

	ClientID     string
	ClientSecret string

	LandingPage      string
	CookieNamePrefix string

	IDTokenHeader   string
	IDTokenPreamble string

	// AccessTokenHeader being empty means the access-token cookie/header
	// pair is not configured at all (spec §3, §4.3.2).
	AccessTokenHeader string

	// Timeout is the Max-Age of the state cookie; defaults to 300s when
	// zero (spec §3).
	Timeout time.Duration

	// LogoutPath/LogoutRedirectToURI being empty means logout handling is
	// disabled (spec §6).
	LogoutPath          string
	LogoutRedirectToURI string
}

func (c FilterConfig) timeoutSeconds() int64 {
	if c.Timeout <= 0 {
		return 300
	}
	return int64(c.Timeout.Seconds())
}

func (c FilterConfig) accessTokenConfigured() bool {
	return c.AccessTokenHeader != ""
}

func (c FilterConfig) logoutConfigured() bool {
	return c.LogoutPath != ""
}

func (c FilterConfig) cookieName(role CookieRole) string {
	return cookieName(c.CookieNamePrefix, role)
}
