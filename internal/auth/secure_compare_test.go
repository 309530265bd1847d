package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureCompareTokens(t *testing.T) {
	assert.True(t, SecureCompareTokens("matching-token", "matching-token"))
	assert.False(t, SecureCompareTokens("matching-token", "different-token"))
	assert.False(t, SecureCompareTokens("short", "shorter-or-longer"))
}

func TestSecureCompareBytes(t *testing.T) {
	assert.True(t, SecureCompareBytes([]byte("abc"), []byte("abc")))
	assert.False(t, SecureCompareBytes([]byte("abc"), []byte("abd")))
}
