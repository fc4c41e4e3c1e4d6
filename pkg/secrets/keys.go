package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeyBytes is the entropy of a generated admin key.
const KeyBytes = 48

// GenerateKey returns a random URL-safe admin key.
func GenerateKey() (string, error) {
	buf := make([]byte, KeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
