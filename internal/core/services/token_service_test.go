package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/echoverse/echoverse_backend/internal/core/services"
	"github.com/echoverse/echoverse_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmailSuccess(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	token := "vtok"
	marked := false
	users := &MockUserRepository{
		FindUserByVerificationTokenFn: func(ctx context.Context, got string) (*domain.User, error) {
			assert.Equal(t, token, got)
			return &domain.User{UserID: 5, VerificationToken: &token, VerificationTokenExpiresAt: &expiry}, nil
		},
		MarkEmailVerifiedFn: func(ctx context.Context, userID int64) error {
			assert.Equal(t, int64(5), userID)
			marked = true
			return nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.True(t, marked)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	users := &MockUserRepository{
		FindUserByVerificationTokenFn: func(ctx context.Context, token string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	err := svc.VerifyEmail(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	expiry := time.Now().Add(-time.Minute)
	token := "vtok"
	users := &MockUserRepository{
		FindUserByVerificationTokenFn: func(ctx context.Context, got string) (*domain.User, error) {
			return &domain.User{UserID: 5, VerificationToken: &token, VerificationTokenExpiresAt: &expiry}, nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	err := svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRequestPasswordResetUnknownEmailStillSucceeds(t *testing.T) {
	users := &MockUserRepository{
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"),
		"unknown addresses must not be distinguishable")
}

func TestRequestPasswordResetStoresToken(t *testing.T) {
	var storedToken string
	var storedExpiry time.Time
	users := &MockUserRepository{
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{UserID: 5, Email: email}, nil
		},
		SetResetTokenFn: func(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
			storedToken = token
			storedExpiry = expiresAt
			return nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
	assert.NotEmpty(t, storedToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), storedExpiry, time.Minute)
}

func TestResetPasswordSuccess(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute)
	token := "rtok"
	var newHash string
	users := &MockUserRepository{
		FindUserByResetTokenFn: func(ctx context.Context, got string) (*domain.User, error) {
			return &domain.User{UserID: 5, ResetToken: &token, ResetTokenExpiresAt: &expiry}, nil
		},
		UpdatePasswordFn: func(ctx context.Context, userID int64, passwordHash string) error {
			assert.Equal(t, int64(5), userID)
			newHash = passwordHash
			return nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword1"))
	assert.True(t, utils.CheckPasswordHash("newpassword1", newHash))
}

func TestResetPasswordDistinguishesInvalidFromExpired(t *testing.T) {
	expired := time.Now().Add(-time.Minute)
	token := "rtok"

	users := &MockUserRepository{
		FindUserByResetTokenFn: func(ctx context.Context, got string) (*domain.User, error) {
			if got == token {
				return &domain.User{UserID: 5, ResetToken: &token, ResetTokenExpiresAt: &expired}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "unknown", "newpassword1"), apperrors.ErrInvalidToken)
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), token, "newpassword1"), apperrors.ErrTokenExpired)
}

func TestChangePasswordSuccess(t *testing.T) {
	user := localUser(t, "oldpassword1")
	var newHash string
	users := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return user, nil
		},
		UpdatePasswordFn: func(ctx context.Context, userID int64, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	require.NoError(t, svc.ChangePassword(context.Background(), 5, "oldpassword1", "newpassword1"))
	assert.True(t, utils.CheckPasswordHash("newpassword1", newHash))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	user := localUser(t, "oldpassword1")
	users := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return user, nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	err := svc.ChangePassword(context.Background(), 5, "wrongwrong1", "newpassword1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePasswordSocialOnlyAccount(t *testing.T) {
	users := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return &domain.User{UserID: 5, Username: "alice"}, nil
		},
	}
	svc := services.NewTokenWorkflowService(users, &MockMailer{}, testLogger(), time.Hour)

	err := svc.ChangePassword(context.Background(), 5, "whatever1", "newpassword1")
	assert.ErrorIs(t, err, apperrors.ErrNoPassword)
}

// --- API tokens ---

func TestAPITokenRoundTrip(t *testing.T) {
	svc := services.NewAPITokenService("secret", "echoverse-backend", time.Hour)

	token, expiresAt, err := svc.IssueAPIToken(context.Background(), 42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	userID, err := svc.ValidateAPIToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestAPITokenValidateRejectsTampered(t *testing.T) {
	svc := services.NewAPITokenService("secret", "echoverse-backend", time.Hour)
	other := services.NewAPITokenService("other-secret", "echoverse-backend", time.Hour)

	token, _, err := other.IssueAPIToken(context.Background(), 42)
	require.NoError(t, err)

	_, err = svc.ValidateAPIToken(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.ValidateAPIToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
