package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newToken returns 32 bytes of entropy hex-encoded, used for both session and
// password-reset tokens.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
