package services

import (
	"context"
	"time"
)

// TokenWorkflowSvc covers the single-use, time-bounded secrets used for email
// verification and password reset, plus the authenticated password change.
type TokenWorkflowSvc interface {
	// VerifyEmail consumes a verification token: apperrors.ErrInvalidToken when
	// unknown, apperrors.ErrTokenExpired when past its TTL.
	VerifyEmail(ctx context.Context, token string) error

	// RequestPasswordReset always succeeds from the caller's perspective; when
	// the email belongs to a user it stores a reset token with a one hour
	// expiry and dispatches the reset mail.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token, distinguishing unknown
	// (ErrInvalidToken) from expired (ErrTokenExpired), and atomically stores
	// the new hash while clearing the token.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ChangePassword verifies the current password before accepting the new
	// one. Social-only accounts fail with apperrors.ErrNoPassword.
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// APITokenSvc mints and validates the short-lived bearer tokens offered to
// programmatic clients as an alternative to the session cookie.
type APITokenSvc interface {
	IssueAPIToken(ctx context.Context, userID int64) (string, time.Time, error)

	// ValidateAPIToken returns the subject user id for a valid token.
	ValidateAPIToken(ctx context.Context, token string) (int64, error)
}
