package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Gateway key format: sk-{secret}
// Example: sk-4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// KeyPrefix is the fixed prefix of every gateway API key.
	KeyPrefix = "sk-"
	// keySecretBytes is the raw entropy per key (256 bits).
	keySecretBytes = 32
)

// keyFormatRegex validates the full key format.
var keyFormatRegex = regexp.MustCompile(`^sk-[a-f0-9]{64}$`)

// GenerateKeySecret creates a new gateway API key secret from a
// cryptographically secure random source. The value is returned to the
// caller exactly once at creation time; clients must persist it out of band.
func GenerateKeySecret() (string, error) {
	secretBytes := make([]byte, keySecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate key secret: %w", err)
	}
	return KeyPrefix + hex.EncodeToString(secretBytes), nil
}

// ValidateKeyFormat checks if the key matches the expected format.
func ValidateKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}
