package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HasherRoundTrip(t *testing.T) {
	h := NewArgon2Hasher()

	hash, err := h.Hash("correct-horse-battery-staple-1!")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := h.Compare(hash, "correct-horse-battery-staple-1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2HasherDistinctSalts(t *testing.T) {
	h := NewArgon2Hasher()

	hash1, err := h.Hash("same-password-1!")
	require.NoError(t, err)
	hash2, err := h.Hash("same-password-1!")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "each hash should use a fresh random salt")
}

func TestArgon2HasherCompareMalformedHash(t *testing.T) {
	h := NewArgon2Hasher()

	ok, err := h.Compare("not-a-real-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidatePasswordComplexity(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Abcdefg1!", false},
		{"too short", "Ab1!", true},
		{"too long", "Aa1!" + stringOfLen(130), true},
		{"missing upper", "abcdefg1!", true},
		{"missing lower", "ABCDEFG1!", true},
		{"missing digit", "Abcdefgh!", true},
		{"missing symbol", "Abcdefg12", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordComplexity(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
