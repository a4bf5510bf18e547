package oidc

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// logAccessTokenExpiryHint opportunistically decodes an access token as a
// JWT purely for a diagnostic expiry hint, the way an operator watching
// logs would want to sanity-check token lifetimes without exposing the
// token itself. Access tokens are opaque to OIDC (spec §3) and never
// required to be JWTs; a non-JWT or unparseable access token is silently
// ignored, and the token's signature is never checked here since this
// value is never used for an authorization decision (the filter only
// trusts the signature verification C4 already performed on the ID
// token).
func logAccessTokenExpiryHint(logger zerolog.Logger, accessToken string) {
	if accessToken == "" {
		return
	}
	claims := jwtlib.MapClaims{}
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		logger.Debug().Time("access_token_exp", exp.Time).Msg("oidc: access token carries a JWT exp claim")
	}
}
