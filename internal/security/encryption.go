package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"erp-import-platform/internal/config"
)

// CredentialCipher encrypts and decrypts stored connection credentials with
// AES-256-GCM. The key is supplied as 64 hex characters via configuration.
type CredentialCipher struct {
	aead cipher.AEAD
}

// NewCredentialCipher creates a cipher from the configured encryption key
func NewCredentialCipher(cfg *config.Config) (*CredentialCipher, error) {
	key, err := hex.DecodeString(cfg.Auth.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &CredentialCipher{aead: aead}, nil
}

// EncryptJSON marshals v and encrypts it into a base64 blob with the nonce
// prepended
func (c *CredentialCipher) EncryptJSON(v interface{}) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptJSON decrypts a blob produced by EncryptJSON into v
func (c *CredentialCipher) DecryptJSON(blob string, v interface{}) error {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("invalid credential blob: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return fmt.Errorf("credential blob too short")
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	return json.Unmarshal(plaintext, v)
}
