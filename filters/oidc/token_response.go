package oidc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-authz/internal/utils"
	"github.com/jrsteele09/go-oidc-authz/oauth2"
)

// TokenResponse is the parsed, verified product of a callback's token
// exchange (component C4, spec §4.2). RawIDToken is kept alongside the
// parsed IDToken because the raw compact JWT, not the claims, is what the
// filter encrypts into the ID-token cookie.
type TokenResponse struct {
	RawIDToken string
	IDToken    *oidc.IDToken

	AccessToken    string
	HasAccessToken bool

	// Expiry governs the ID/access-token cookies' Max-Age. It is either
	// derived from expires_in (with a 5s safety margin) or, absent that,
	// the ID token's own exp claim (spec §4.2 step 7).
	Expiry time.Time
}

// TokenParser is the C4 collaborator the filter depends on: parsing and
// validating a callback's token-endpoint response. It is an interface
// rather than a concrete type so tests can substitute a deterministic fake
// for it (spec §9: "C2 ... C3 ... and C4 ... must be replaceable with
// deterministic fakes for testing").
type TokenParser interface {
	Parse(ctx context.Context, clientID, expectedNonce string, rawBody []byte) (*TokenResponse, bool)
}

// TokenResponseParser implements the Parse operation of C4: validating the
// token endpoint's JSON body and the ID token it carries. JWT signature
// verification and audience enforcement are delegated to an
// *oidc.IDTokenVerifier, matching how the teacher's own callback handler
// verifies tokens (server/auth_callback_handler.go) rather than hand-rolling
// JWS parsing.
type TokenResponseParser struct {
	verifier *oidc.IDTokenVerifier
	now      func() time.Time
}

// NewTokenResponseParser builds a parser that verifies ID tokens with
// verifier. now defaults to time.Now when nil, overridable by tests.
func NewTokenResponseParser(verifier *oidc.IDTokenVerifier, now func() time.Time) *TokenResponseParser {
	if now == nil {
		now = time.Now
	}
	return &TokenResponseParser{verifier: verifier, now: now}
}

// Parse implements C4's Parse operation (spec §4.2). Every failure is
// logged at info level with a short code and returns ok=false; none ever
// includes the raw token material.
func (p *TokenResponseParser) Parse(ctx context.Context, clientID, expectedNonce string, rawBody []byte) (*TokenResponse, bool) {
	var body oauth2.TokenResponse
	if err := json.Unmarshal(rawBody, &body); err != nil {
		log.Info().Err(err).Msg("oidc: token response body is not valid JSON")
		return nil, false
	}

	if !strings.EqualFold(body.TokenType, "Bearer") {
		log.Info().Str("token_type", body.TokenType).Msg("oidc: token response token_type is not Bearer")
		return nil, false
	}

	rawIDToken := utils.Value(body.IDToken)
	if rawIDToken == "" {
		log.Info().Msg("oidc: token response is missing id_token")
		return nil, false
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Info().Err(err).Msg("oidc: id_token failed signature/claim verification")
		return nil, false
	}

	var claims struct {
		Nonce string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		log.Info().Err(err).Msg("oidc: failed to decode id_token claims")
		return nil, false
	}
	if claims.Nonce == "" || claims.Nonce != expectedNonce {
		log.Info().Msg("oidc: id_token nonce does not match expected nonce")
		return nil, false
	}

	resp := &TokenResponse{RawIDToken: rawIDToken, IDToken: idToken}

	if accessToken := utils.Value(body.AccessToken); accessToken != "" {
		resp.AccessToken = accessToken
		resp.HasAccessToken = true
	}

	if body.ExpiresIn != nil {
		expiresIn := utils.Value(body.ExpiresIn)
		if expiresIn <= 0 {
			log.Info().Msg("oidc: expires_in is present but not a positive integer")
			return nil, false
		}
		resp.Expiry = p.now().Add(time.Duration(expiresIn)*time.Second - 5*time.Second)
	} else {
		resp.Expiry = idToken.Expiry
	}

	return resp, true
}
