package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	"github.com/echoverse/echoverse_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	GetFn           func(ctx context.Context, token string) (*domain.Session, error)
	SetFn           func(ctx context.Context, session domain.Session) error
	DestroyFn       func(ctx context.Context, token string) error
	DeleteExpiredFn func(ctx context.Context) (int64, error)
}

var _ portsrepo.SessionRepository = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, token)
	}
	return nil, apperrors.ErrNotFound
}

func (m *MockSessionRepository) Set(ctx context.Context, session domain.Session) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) Destroy(ctx context.Context, token string) error {
	if m.DestroyFn != nil {
		return m.DestroyFn(ctx, token)
	}
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx)
	}
	return 0, nil
}

func TestEstablishSession(t *testing.T) {
	var stored domain.Session
	sessions := &MockSessionRepository{
		SetFn: func(ctx context.Context, session domain.Session) error {
			stored = session
			return nil
		},
	}
	svc := services.NewSessionService(sessions, &MockUserRepository{}, testLogger(), 30*24*time.Hour)

	session, err := svc.Establish(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, session.Token, 64, "32 random bytes hex encoded")
	assert.Equal(t, int64(5), session.UserID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), session.ExpiresAt, time.Minute)
	assert.Equal(t, session.Token, stored.Token)
}

func TestCurrentUserRehydratesPublicUser(t *testing.T) {
	now := time.Now()
	sessions := &MockSessionRepository{
		GetFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 5, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
		},
	}
	users := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			hash := "digest.salt"
			return &domain.User{UserID: userID, Username: "alice", PasswordHash: &hash}, nil
		},
	}
	svc := services.NewSessionService(sessions, users, testLogger(), 30*24*time.Hour)

	pub, err := svc.CurrentUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(5), pub.UserID)
	assert.Equal(t, "alice", pub.Username)
}

func TestCurrentUserUnknownToken(t *testing.T) {
	svc := services.NewSessionService(&MockSessionRepository{}, &MockUserRepository{}, testLogger(), 30*24*time.Hour)

	_, err := svc.CurrentUser(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCurrentUserExpiredSessionIsDestroyed(t *testing.T) {
	now := time.Now()
	destroyed := false
	sessions := &MockSessionRepository{
		GetFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 5, CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-time.Hour)}, nil
		},
		DestroyFn: func(ctx context.Context, token string) error {
			destroyed = true
			return nil
		},
	}
	svc := services.NewSessionService(sessions, &MockUserRepository{}, testLogger(), 30*24*time.Hour)

	_, err := svc.CurrentUser(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.True(t, destroyed, "expired session should be cleaned up on read")
}

func TestDestroyToleratesUnknownToken(t *testing.T) {
	sessions := &MockSessionRepository{
		DestroyFn: func(ctx context.Context, token string) error {
			return apperrors.ErrNotFound
		},
	}
	svc := services.NewSessionService(sessions, &MockUserRepository{}, testLogger(), 30*24*time.Hour)

	assert.NoError(t, svc.Destroy(context.Background(), "gone"), "logout is idempotent")
}
