package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/utils"
)

// sessionTokenBytes is the entropy of the opaque session token (hex encoded to
// twice this many characters).
const sessionTokenBytes = 32

// sessionService implements SessionSvcFacade over a session store and the user
// gateway. Sessions serialize only the user id; the full public user is
// rehydrated on every request.
type sessionService struct {
	sessions portsrepo.SessionRepository
	users    portsrepo.UserRepository
	logger   *slog.Logger
	duration time.Duration
}

// NewSessionService creates the session manager with the given lifetime.
func NewSessionService(sessions portsrepo.SessionRepository, users portsrepo.UserRepository, logger *slog.Logger, duration time.Duration) portssvc.SessionSvcFacade {
	return &sessionService{
		sessions: sessions,
		users:    users,
		logger:   logger,
		duration: duration,
	}
}

func (s *sessionService) Establish(ctx context.Context, userID int64) (*domain.Session, error) {
	token, err := utils.GenerateSecureRandomString(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &session, nil
}

func (s *sessionService) CurrentUser(ctx context.Context, token string) (*domain.PublicUser, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(time.Now()) {
		// Lazy cleanup; the periodic sweep handles the rest.
		if err := s.sessions.Destroy(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "Failed to destroy expired session", slog.String("error", err.Error()))
		}
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to rehydrate session user: %w", err)
	}

	pub := user.Public()
	return &pub, nil
}

func (s *sessionService) Destroy(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
