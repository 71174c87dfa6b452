package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/utils"
)

// resetTokenBytes is the entropy of verification and reset tokens.
const resetTokenBytes = 32

// tokenWorkflowService implements TokenWorkflowSvc. Verification and reset
// tokens are issued uniformly: random, single-use, expiry-enforced.
type tokenWorkflowService struct {
	users  portsrepo.UserRepository
	mailer portssvc.MailerSvc
	logger *slog.Logger

	resetTTL time.Duration
}

// NewTokenWorkflowService creates the token workflow service.
func NewTokenWorkflowService(users portsrepo.UserRepository, mailer portssvc.MailerSvc, logger *slog.Logger, resetTTL time.Duration) portssvc.TokenWorkflowSvc {
	return &tokenWorkflowService{
		users:    users,
		mailer:   mailer,
		logger:   logger,
		resetTTL: resetTTL,
	}
}

func (s *tokenWorkflowService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.FindUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidToken
		}
		return fmt.Errorf("failed to look up verification token: %w", err)
	}

	if user.VerificationTokenExpiresAt != nil && time.Now().After(*user.VerificationTokenExpiresAt) {
		return apperrors.ErrTokenExpired
	}

	if err := s.users.MarkEmailVerified(ctx, user.UserID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

// RequestPasswordReset reports success whether or not the email exists, so the
// endpoint cannot be used to enumerate accounts.
func (s *tokenWorkflowService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	token, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.UserID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		mailCtx, cancel := context.WithTimeout(detached, mailTimeout)
		defer cancel()
		if err := s.mailer.SendPasswordResetEmail(mailCtx, user.Email, token); err != nil {
			s.logger.ErrorContext(mailCtx, "Failed to send password reset mail",
				slog.Int64("user_id", user.UserID),
				slog.String("error", err.Error()))
		}
	}()

	return nil
}

func (s *tokenWorkflowService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperrors.ErrTokenExpired
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	// UpdatePassword clears the reset token and expiry in the same write, so a
	// consumed token cannot be replayed.
	if err := s.users.UpdatePassword(ctx, user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

func (s *tokenWorkflowService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for password change: %w", err)
	}

	if !user.HasPassword() {
		return apperrors.ErrNoPassword
	}
	if !utils.CheckPasswordHash(currentPassword, *user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// apiTokenService mints short-lived HS256 bearer tokens for programmatic
// clients. The browser session cookie remains the primary login state.
type apiTokenService struct {
	secret   string
	issuer   string
	duration time.Duration
}

// NewAPITokenService creates the bearer token service.
func NewAPITokenService(secret, issuer string, duration time.Duration) portssvc.APITokenSvc {
	return &apiTokenService{secret: secret, issuer: issuer, duration: duration}
}

func (s *apiTokenService) IssueAPIToken(ctx context.Context, userID int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.duration)
	token, err := utils.GenerateJWT(userID, s.secret, s.duration, s.issuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign api token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *apiTokenService) ValidateAPIToken(ctx context.Context, token string) (int64, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.secret)
	if err != nil {
		return 0, apperrors.ErrUnauthorized
	}
	userID, err := utils.SubjectUserID(claims)
	if err != nil {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}
