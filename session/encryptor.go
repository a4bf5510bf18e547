// Package session provides the symmetric encryptor used to turn opaque
// session values (state;nonce pairs, ID tokens, access tokens) into
// cookie-safe ciphertext and back. This is component C2 of the spec: an
// interface-only collaborator there, given a concrete AEAD-backed
// implementation here using the same golang.org/x/crypto dependency the
// teacher already pulls in for bcrypt.
package session

// Encryptor is the collaborator injected into the OIDC filter for
// protecting cookie contents. Encrypt never fails from the caller's
// perspective; Decrypt reports ok=false on any integrity or format
// failure, which the filter treats as a protocol violation on the callback
// path and as an absent session (restarting authentication) otherwise.
type Encryptor interface {
	Encrypt(plaintext string) string
	Decrypt(ciphertext string) (plaintext string, ok bool)
}
