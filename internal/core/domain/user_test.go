package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicStripsCredentialFields(t *testing.T) {
	hash := "digest.salt"
	verTok := "verification-token"
	resetTok := "reset-token"
	expiry := time.Now().Add(time.Hour)

	u := domain.User{
		UserID:                     7,
		Username:                   "alice",
		Email:                      "alice@example.com",
		PasswordHash:               &hash,
		EmailVerified:              true,
		VerificationToken:          &verTok,
		VerificationTokenExpiresAt: &expiry,
		ResetToken:                 &resetTok,
		ResetTokenExpiresAt:        &expiry,
		FullName:                   "Alice Example",
		Role:                       domain.RoleUser,
		CreatedAt:                  time.Now(),
	}

	pub := u.Public()
	assert.Equal(t, int64(7), pub.UserID)
	assert.Equal(t, "alice", pub.Username)
	assert.Equal(t, "alice@example.com", pub.Email)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, forbidden := range []string{"password", "passwordHash", "password_hash", "verificationToken", "resetToken"} {
		_, present := fields[forbidden]
		assert.False(t, present, "serialized user must not carry %q", forbidden)
	}
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "emailVerified")
}

func TestHasPassword(t *testing.T) {
	var u domain.User
	assert.False(t, u.HasPassword(), "social-only account has no password")

	empty := ""
	u.PasswordHash = &empty
	assert.False(t, u.HasPassword())

	hash := "digest.salt"
	u.PasswordHash = &hash
	assert.True(t, u.HasPassword())
}

func TestRolePrivileged(t *testing.T) {
	assert.True(t, domain.RoleAdmin.Privileged())
	for _, r := range []domain.Role{domain.RoleUser, domain.RoleBusiness, domain.RoleEducator, domain.RoleCreator} {
		assert.False(t, r.Privileged(), "role %s must not be privileged", r)
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, domain.ValidRole("user"))
	assert.True(t, domain.ValidRole("admin"))
	assert.False(t, domain.ValidRole("superuser"))
	assert.False(t, domain.ValidRole(""))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := domain.Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
}
