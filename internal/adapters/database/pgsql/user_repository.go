package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	"github.com/echoverse/echoverse_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

const userColumns = `
	user_id, username, email, password_hash, email_verified,
	verification_token, verification_token_expires_at,
	reset_token, reset_token_expires_at,
	full_name, first_name, last_name, avatar_url, bio,
	role, onboarding_step, onboarding_completed, preferences,
	billing_customer_id, billing_subscription_id, billing_tier,
	last_login_at, created_at, updated_at`

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                     m.UserID,
		Username:                   m.Username,
		Email:                      m.Email,
		PasswordHash:               nullableString(m.PasswordHash),
		EmailVerified:              m.EmailVerified,
		VerificationToken:          nullableString(m.VerificationToken),
		VerificationTokenExpiresAt: nullableTime(m.VerificationTokenExpiresAt),
		ResetToken:                 nullableString(m.ResetToken),
		ResetTokenExpiresAt:        nullableTime(m.ResetTokenExpiresAt),
		FullName:                   m.FullName,
		FirstName:                  m.FirstName,
		LastName:                   m.LastName,
		AvatarURL:                  m.AvatarURL,
		Bio:                        m.Bio,
		Role:                       domain.Role(m.Role),
		OnboardingStep:             m.OnboardingStep,
		OnboardingCompleted:        m.OnboardingCompleted,
		Preferences:                m.Preferences,
		BillingCustomerID:          m.BillingCustomerID,
		BillingSubscriptionID:      m.BillingSubscriptionID,
		BillingTier:                m.BillingTier,
		LastLoginAt:                nullableTime(m.LastLoginAt),
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  m.UpdatedAt,
	}
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.PasswordHash,
		&m.EmailVerified,
		&m.VerificationToken,
		&m.VerificationTokenExpiresAt,
		&m.ResetToken,
		&m.ResetTokenExpiresAt,
		&m.FullName,
		&m.FirstName,
		&m.LastName,
		&m.AvatarURL,
		&m.Bio,
		&m.Role,
		&m.OnboardingStep,
		&m.OnboardingCompleted,
		&m.Preferences,
		&m.BillingCustomerID,
		&m.BillingSubscriptionID,
		&m.BillingTier,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	u := toDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) findBy(ctx context.Context, clause string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + clause + `;`
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", clause, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.findBy(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findBy(ctx, "username = $1", username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email = $1", email)
}

func (r *PgxUserRepository) FindUserByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findBy(ctx, "verification_token = $1", token)
}

func (r *PgxUserRepository) FindUserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findBy(ctx, "reset_token = $1", token)
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	prefs := user.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}

	query := `
        INSERT INTO users (
            username, email, password_hash, email_verified,
            verification_token, verification_token_expires_at,
            full_name, first_name, last_name, avatar_url, bio,
            role, preferences
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING ` + userColumns + `;`

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.EmailVerified,
		user.VerificationToken,
		user.VerificationTokenExpiresAt,
		user.FullName,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
		user.Bio,
		string(role),
		prefs,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Constraint names come from the users migration; a concurrent
			// insert losing the race still reports which field collided.
			switch pgErr.ConstraintName {
			case "users_username_key":
				return nil, &apperrors.DuplicateError{Field: "username"}
			case "users_email_key":
				return nil, &apperrors.DuplicateError{Field: "email"}
			}
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Role != nil {
		add("role", string(*patch.Role))
	}
	if patch.OnboardingStep != nil {
		add("onboarding_step", *patch.OnboardingStep)
	}
	if patch.OnboardingCompleted != nil {
		add("onboarding_completed", *patch.OnboardingCompleted)
	}
	if patch.Preferences != nil {
		add("preferences", patch.Preferences)
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d RETURNING %s;`,
		strings.Join(set, ", "), len(args), userColumns)

	updated, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return updated, nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
        UPDATE users
        SET password_hash = $1, reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
        WHERE user_id = $2;`
	return r.execOne(ctx, query, "failed to update password", passwordHash, userID)
}

func (r *PgxUserRepository) SetVerificationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
        UPDATE users
        SET verification_token = $1, verification_token_expires_at = $2, updated_at = now()
        WHERE user_id = $3;`
	return r.execOne(ctx, query, "failed to set verification token", token, expiresAt, userID)
}

func (r *PgxUserRepository) MarkEmailVerified(ctx context.Context, userID int64) error {
	query := `
        UPDATE users
        SET email_verified = TRUE, verification_token = NULL, verification_token_expires_at = NULL, updated_at = now()
        WHERE user_id = $1;`
	return r.execOne(ctx, query, "failed to mark email verified", userID)
}

func (r *PgxUserRepository) SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
        UPDATE users
        SET reset_token = $1, reset_token_expires_at = $2, updated_at = now()
        WHERE user_id = $3;`
	return r.execOne(ctx, query, "failed to set reset token", token, expiresAt, userID)
}

func (r *PgxUserRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1 WHERE user_id = $2;`
	return r.execOne(ctx, query, "failed to touch last login", at, userID)
}

func (r *PgxUserRepository) execOne(ctx context.Context, query, what string, args ...any) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
