// Package secrets wraps fernet symmetric encryption for credentials that
// must live in the settings table, such as the price feed API token.
// Ciphertext at rest, plaintext only in memory.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrDecryptFailed indicates ciphertext that does not verify under the
// configured key, either a wrong key or a tampered value.
var ErrDecryptFailed = errors.New("failed to decrypt secret")

// Vault encrypts and decrypts short secret strings with a single fernet key.
type Vault struct {
	key *fernet.Key
}

// NewVault parses a base64 fernet key (as produced by fernet key
// generation) into a Vault.
func NewVault(encodedKey string) (*Vault, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Vault{key: key}, nil
}

// Encrypt returns the fernet token for the given plaintext.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), v.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and opens a fernet token. Tokens do not expire: a TTL of
// zero disables the freshness check, credentials rotate explicitly.
func (v *Vault) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{v.key})
	if plaintext == nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
