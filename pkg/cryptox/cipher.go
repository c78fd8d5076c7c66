package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrCiphertext is returned by Decrypt for anything that is not a value
// produced by Encrypt under the same secret: bad encoding, truncated input or
// a failed authentication tag.
var ErrCiphertext = errors.New("cryptox: invalid ciphertext")

// Cipher encrypts short identity strings with AES-256-GCM so they can be
// handed to a client (e.g. inside a cookie) without exposing the plaintext.
//
// The output format is base64url(no padding) of [12-byte nonce][ciphertext][16-byte tag],
// which is safe to use as a cookie value as-is.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives an AES-256 key from secret using HKDF-SHA256. The info
// string domain-separates keys so the same secret can back several ciphers.
func NewCipher(secret []byte, info string) (*Cipher, error) {
	if len(secret) == 0 {
		return nil, errors.New("cryptox: cipher secret must not be empty")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive cipher key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: gcm}, nil
}

// Encrypt seals plaintext with a fresh random nonce.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It never panics on hostile input; every failure
// wraps ErrCiphertext.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad encoding", ErrCiphertext)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: too short", ErrCiphertext)
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrCiphertext)
	}

	return string(plaintext), nil
}
