package utils_test

import (
	"strings"
	"testing"

	"github.com/echoverse/echoverse_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesDigestAndSalt(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple1")
	require.NoError(t, err)

	parts := strings.Split(hash, ".")
	require.Len(t, parts, 2, "expected digest.salt format")
	assert.Len(t, parts[0], 128, "64-byte digest hex encodes to 128 chars")
	assert.Len(t, parts[1], 32, "16-byte salt hex encodes to 32 chars")
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	h1, err := utils.HashPassword("samepassword1")
	require.NoError(t, err)
	h2, err := utils.HashPassword("samepassword1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ by salt")
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("sup3rsecret")
	require.NoError(t, err)

	assert.True(t, utils.CheckPasswordHash("sup3rsecret", hash))
	assert.False(t, utils.CheckPasswordHash("sup3rsecret2", hash))
	assert.False(t, utils.CheckPasswordHash("", hash))
}

func TestCheckPasswordHashMalformedStored(t *testing.T) {
	cases := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"non-hex digest", "zzzz.00ff"},
		{"non-hex salt", "00ff.zzzz"},
		{"wrong digest length", "00ff.00ff00ff00ff00ff00ff00ff00ff00ff"},
		{"trailing separator", "00ff."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, utils.CheckPasswordHash("whatever", tc.stored),
				"malformed stored hash must fail verification, not panic")
		})
	}
}
