package oauth2

// TokenResponse is the JSON shape a compliant token endpoint returns for an
// authorization_code grant (spec §4.2). Unknown fields are ignored by
// encoding/json's default unmarshalling, matching step 1 of the parse
// algorithm without any extra effort. AccessToken and IDToken are pointers
// so a parser can distinguish "field absent" from "field present but
// empty" (spec §4.2 steps 3 and 6).
type TokenResponse struct {
	AccessToken *string `json:"access_token,omitempty"`
	IDToken     *string `json:"id_token,omitempty"`
	TokenType   string  `json:"token_type,omitempty"`
	ExpiresIn   *int64  `json:"expires_in,omitempty"`
}
