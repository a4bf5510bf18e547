package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// hkdfInfo labels the derived key so the same cryptor_secret could, in
// principle, be reused to derive keys for unrelated purposes without
// collision.
const hkdfInfo = "authz-filter-session-cookie-v1"

// AEADEncryptor implements Encryptor using XChaCha20-Poly1305, keyed by an
// HKDF-SHA256 derivation of the configured cryptor_secret. It is safe for
// concurrent use (crypto/cipher.AEAD values are stateless) per spec §5.
type AEADEncryptor struct {
	aead cipherAEAD
}

type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
	Overhead() int
}

// NewAEADEncryptor derives a 32-byte XChaCha20-Poly1305 key from secret via
// HKDF-SHA256 and returns an Encryptor backed by it. secret is the
// cryptor_secret configuration option; it need not be exactly 32 bytes.
func NewAEADEncryptor(secret []byte) (*AEADEncryptor, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &AEADEncryptor{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64url(nonce || ciphertext). Per the Encryptor contract this never
// fails: a crypto/rand read failure is logged and answered with a
// syntactically valid but unopenable opaque string, so a caller that
// round-trips it observes a Decrypt failure rather than a panic.
func (e *AEADEncryptor) Encrypt(plaintext string) string {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		log.Error().Err(err).Msg("session: failed to read random nonce, returning unopenable placeholder")
		return base64.RawURLEncoding.EncodeToString(nonce)
	}
	sealed := e.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(append(nonce, sealed...))
}

// Decrypt reverses Encrypt, returning ok=false on any base64, length, or
// authentication failure.
func (e *AEADEncryptor) Decrypt(ciphertext string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", false
	}
	nonceSize := e.aead.NonceSize()
	if len(raw) < nonceSize+e.aead.Overhead() {
		return "", false
	}
	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", false
	}
	return string(plaintext), true
}

var _ Encryptor = (*AEADEncryptor)(nil)
