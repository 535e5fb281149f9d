package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Stored form is "salt:hash", both hex. The derivation parameters are fixed;
// changing them invalidates every stored credential, so bumping the iteration
// count needs a rehash-on-login migration first.
const (
	saltBytes        = 16
	pbkdf2Iterations = 1000
	pbkdf2KeyLen     = 64
)

// Hasher is the one-way credential primitive. Zero value is ready to use.
type Hasher struct{}

func (Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify recomputes the derivation with the stored salt and compares in
// constant time. Any malformed stored form verifies false rather than erroring.
func (Hasher) Verify(plaintext, stored string) bool {
	salt, want, ok := splitStored(stored)
	if !ok {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitStored(stored string) (salt, hash []byte, ok bool) {
	saltHex, hashHex, found := strings.Cut(stored, ":")
	if !found {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return nil, nil, false
	}
	hash, err = hex.DecodeString(hashHex)
	if err != nil || len(hash) != pbkdf2KeyLen {
		return nil, nil, false
	}
	return salt, hash, true
}
