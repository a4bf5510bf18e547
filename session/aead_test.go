package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oidc-authz/session"
)

func TestAEADEncryptor_RoundTrip(t *testing.T) {
	enc, err := session.NewAEADEncryptor([]byte("a sufficiently long cryptor secret"))
	require.NoError(t, err)

	t.Run("round trips arbitrary plaintext", func(t *testing.T) {
		ciphertext := enc.Encrypt("state-value;nonce-value")
		plaintext, ok := enc.Decrypt(ciphertext)
		require.True(t, ok)
		assert.Equal(t, "state-value;nonce-value", plaintext)
	})

	t.Run("round trips empty plaintext", func(t *testing.T) {
		ciphertext := enc.Encrypt("")
		plaintext, ok := enc.Decrypt(ciphertext)
		require.True(t, ok)
		assert.Equal(t, "", plaintext)
	})

	t.Run("two encryptions of the same plaintext are not byte-identical", func(t *testing.T) {
		a := enc.Encrypt("same value")
		b := enc.Encrypt("same value")
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		_, ok := enc.Decrypt("not-valid-base64!!!")
		assert.False(t, ok)
	})

	t.Run("rejects truncated ciphertext", func(t *testing.T) {
		ciphertext := enc.Encrypt("hello")
		_, ok := enc.Decrypt(ciphertext[:len(ciphertext)/2])
		assert.False(t, ok)
	})

	t.Run("rejects tampered ciphertext", func(t *testing.T) {
		ciphertext := enc.Encrypt("hello")
		tampered := []byte(ciphertext)
		tampered[len(tampered)-1] ^= 0x01
		_, ok := enc.Decrypt(string(tampered))
		assert.False(t, ok)
	})

	t.Run("a different key cannot decrypt", func(t *testing.T) {
		other, err := session.NewAEADEncryptor([]byte("a different cryptor secret entirely"))
		require.NoError(t, err)
		ciphertext := enc.Encrypt("hello")
		_, ok := other.Decrypt(ciphertext)
		assert.False(t, ok)
	})
}

func TestNewAEADEncryptor_DeterministicKeyDerivation(t *testing.T) {
	a, err := session.NewAEADEncryptor([]byte("same secret"))
	require.NoError(t, err)
	b, err := session.NewAEADEncryptor([]byte("same secret"))
	require.NoError(t, err)

	ciphertext := a.Encrypt("hello")
	plaintext, ok := b.Decrypt(ciphertext)
	require.True(t, ok)
	assert.Equal(t, "hello", plaintext)
}
