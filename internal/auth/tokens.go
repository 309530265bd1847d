package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateAuthCode returns a hex-encoded 64-byte random authorization
// code (128 hex characters).
func GenerateAuthCode() (string, error) {
	return randomHex(64)
}

// GenerateRefreshToken returns a hex-encoded 32-byte random refresh
// token (64 hex characters).
func GenerateRefreshToken() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken hashes a raw token for storage: SHA-256 over the ASCII
// bytes, hex-encoded. The raw value is never persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyPKCE checks a code_verifier against a stored code_challenge
// under the given method. Any method other than "S256" or "plain" fails
// closed.
func VerifyPKCE(verifier, challenge, method string) bool {
	switch method {
	case "S256":
		sum := sha256.Sum256([]byte(verifier))
		computed := base64.RawURLEncoding.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
	case "plain":
		return subtle.ConstantTimeCompare([]byte(verifier), []byte(challenge)) == 1
	default:
		return false
	}
}
