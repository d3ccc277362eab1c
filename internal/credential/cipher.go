package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const (
	// keyFileName is the name of the file storing the master key
	keyFileName = ".mornpage_key"

	masterKeySize = 32 // AES-256

	hkdfInfoCredential = "mornpage-credential-v1"
)

var (
	// ErrDecryptionFailed is returned when decryption fails
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")

	// ErrEncryptionFailed is returned when encryption fails
	ErrEncryptionFailed = errors.New("encryption failed")
)

// Cipher seals credential values with AES-256-GCM. The output is
// base64(nonce || ciphertext) so it can live in a string key-value store.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the credential key from masterKey with HKDF-SHA256.
func NewCipher(masterKey []byte) (*Cipher, error) {
	if len(masterKey) != masterKeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes", ErrEncryptionFailed, masterKeySize)
	}

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfoCredential)), key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	return &Cipher{aead: aead}, nil
}

// NewFileCipher loads the master key from dir, creating it on first use.
func NewFileCipher(dir string) (*Cipher, error) {
	key, err := getOrCreateFileKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}

	return NewCipher(key)
}

// Encrypt seals plaintext.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrDecryptionFailed
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// getOrCreateFileKey retrieves the file-based master key, creating it if necessary
func getOrCreateFileKey(keyPath string) ([]byte, error) {
	keyHex, err := os.ReadFile(keyPath)
	if err == nil {
		key, decodeErr := hex.DecodeString(string(keyHex))
		if decodeErr == nil && len(key) == masterKeySize {
			return key, nil
		}
	}

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save key with restrictive permissions
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0600); err != nil {
		return nil, fmt.Errorf("failed to save encryption key: %w", err)
	}

	return key, nil
}
