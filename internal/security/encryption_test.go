package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-import-platform/internal/config"
)

func cipherWithKey(t *testing.T, key string) *CredentialCipher {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.EncryptionKey = key
	c, err := NewCredentialCipher(cfg)
	require.NoError(t, err)
	return c
}

func TestCredentialCipherRoundTrip(t *testing.T) {
	c := cipherWithKey(t, strings.Repeat("ab", 32))

	original := map[string]string{
		"username": "admin",
		"password": "s3cret!",
		"company":  "Main",
	}
	blob, err := c.EncryptJSON(original)
	require.NoError(t, err)
	assert.NotContains(t, blob, "s3cret!")

	var decrypted map[string]string
	require.NoError(t, c.DecryptJSON(blob, &decrypted))
	assert.Equal(t, original, decrypted)
}

func TestCredentialCipherNoncePerCall(t *testing.T) {
	c := cipherWithKey(t, strings.Repeat("ab", 32))

	first, err := c.EncryptJSON("same payload")
	require.NoError(t, err)
	second, err := c.EncryptJSON("same payload")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCredentialCipherWrongKey(t *testing.T) {
	encryptor := cipherWithKey(t, strings.Repeat("ab", 32))
	decryptor := cipherWithKey(t, strings.Repeat("cd", 32))

	blob, err := encryptor.EncryptJSON(map[string]string{"password": "secret"})
	require.NoError(t, err)

	var out map[string]string
	err = decryptor.DecryptJSON(blob, &out)
	assert.ErrorContains(t, err, "failed to decrypt credentials")
}

func TestCredentialCipherRejectsBadBlob(t *testing.T) {
	c := cipherWithKey(t, strings.Repeat("ab", 32))

	var out map[string]string
	assert.ErrorContains(t, c.DecryptJSON("not base64!!", &out), "invalid credential blob")
	assert.ErrorContains(t, c.DecryptJSON("aGk=", &out), "credential blob too short")
}

func TestNewCredentialCipherRejectsBadKeys(t *testing.T) {
	cfg := &config.Config{}

	cfg.Auth.EncryptionKey = "not hex"
	_, err := NewCredentialCipher(cfg)
	assert.ErrorContains(t, err, "invalid encryption key")

	cfg.Auth.EncryptionKey = "abcd"
	_, err = NewCredentialCipher(cfg)
	assert.ErrorContains(t, err, "must be 32 bytes")
}
