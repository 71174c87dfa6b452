package utils_test

import (
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := utils.GenerateJWT(42, testSecret, time.Hour, "echoverse-backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)

	userID, err := utils.SubjectUserID(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "echoverse-backend", claims.Issuer)
}

func TestParseAndValidateJWTWrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT(42, testSecret, time.Hour, "echoverse-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseAndValidateJWTExpired(t *testing.T) {
	token, err := utils.GenerateJWT(42, testSecret, -time.Minute, "echoverse-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseAndValidateJWTGarbage(t *testing.T) {
	_, err := utils.ParseAndValidateJWT("not.a.jwt", testSecret)
	assert.Error(t, err)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s1, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s1, 64, "32 random bytes encode to 64 hex chars")

	s2, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}
