// Package oauth2 holds the small set of OAuth 2.0/OIDC wire vocabulary this
// relying party needs: the response_type and grant_type values it sends,
// and the shape of a token endpoint's JSON response. It carries no
// authorization-server concerns (PKCE, response_mode, client/tenant
// registration) — those belong to an issuer, and this service is never one
// (spec §1: "Non-goals").
package oauth2

// ResponseType is the value of the authorization request's response_type
// parameter (spec §4.3.3).
type ResponseType string

const (
	// CodeResponseType is the only response type this filter ever
	// requests: the Authorization Code flow.
	CodeResponseType ResponseType = "code"
)

// GrantType is the value of the token request's grant_type parameter
// (spec §4.3.1).
type GrantType string

const (
	// AuthorizationCodeGrant is the only grant type this filter ever
	// sends: exchanging a callback's authorization code for tokens.
	AuthorizationCodeGrant GrantType = "authorization_code"
)
