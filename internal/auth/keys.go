// Package auth issues and verifies the PASETO access tokens that identify
// palette owners and subscribers.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
	// Expected hex-encoded length (32 bytes = 64 hex characters).
	keyHexLength = 64

	keyDerivationInfo = "coloredin access token v4.local"
)

// DeriveKey stretches a shared secret into a token key with HKDF-SHA256, so
// every replica configured with the same secret accepts the same tokens.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("auth secret must not be empty")
	}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyDerivationInfo))
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive auth key: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey loads the hex-encoded token key at keyPath, generating and
// saving a new one if the file doesn't exist.
func LoadOrGenerateKey(keyPath string) ([]byte, error) {
	//#nosec G304 -- key path comes from configuration
	keyBytes, err := os.ReadFile(keyPath)
	if err == nil {
		keyHex := strings.TrimSpace(string(keyBytes))
		if len(keyHex) != keyHexLength {
			return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
		}
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

// ResolveKey picks the token key: derived from secret when one is set,
// otherwise loaded from (or generated at) keyPath.
func ResolveKey(secret, keyPath string) ([]byte, error) {
	if secret != "" {
		return DeriveKey(secret)
	}
	return LoadOrGenerateKey(keyPath)
}
