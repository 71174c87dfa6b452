package repositories

import (
	"context"
	"time"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// UserRepository is the persistence gateway for user rows. Every lookup
// returns apperrors.ErrNotFound for absence; it never returns a nil user with
// a nil error. Username, email and token uniqueness are enforced by the
// storage layer and surface as apperrors.ErrDuplicate on create.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	FindUserByResetToken(ctx context.Context, token string) (*domain.User, error)

	// CreateUser inserts the user and returns the row with its assigned id.
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)

	// UpdateUser applies a partial profile patch and returns the updated row.
	UpdateUser(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error)

	// UpdatePassword stores a new password hash and clears any outstanding
	// reset token and expiry in the same write.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// SetVerificationToken stores a fresh email-verification token, replacing
	// any previous one.
	SetVerificationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// MarkEmailVerified flips the verified flag and clears the verification
	// token and expiry in the same write.
	MarkEmailVerified(ctx context.Context, userID int64) error

	// SetResetToken stores a fresh password-reset token, superseding any
	// previous one.
	SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// TouchLastLogin records a successful authentication. Advisory metadata;
	// concurrent logins may race on it.
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}
