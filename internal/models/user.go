package models

import (
	"database/sql"
	"time"
)

// User is the database row shape for the users table. Credential and token
// columns never leave the repository layer in this form; the repository
// converts to domain.User.
type User struct {
	UserID        int64          `db:"user_id"`
	Username      string         `db:"username"`
	Email         string         `db:"email"`
	PasswordHash  sql.NullString `db:"password_hash"`
	EmailVerified bool           `db:"email_verified"`

	VerificationToken          sql.NullString `db:"verification_token"`
	VerificationTokenExpiresAt sql.NullTime   `db:"verification_token_expires_at"`
	ResetToken                 sql.NullString `db:"reset_token"`
	ResetTokenExpiresAt        sql.NullTime   `db:"reset_token_expires_at"`

	FullName  string `db:"full_name"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	AvatarURL string `db:"avatar_url"`
	Bio       string `db:"bio"`

	Role                string         `db:"role"`
	OnboardingStep      int            `db:"onboarding_step"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	Preferences         map[string]any `db:"preferences"`

	BillingCustomerID     string `db:"billing_customer_id"`
	BillingSubscriptionID string `db:"billing_subscription_id"`
	BillingTier           string `db:"billing_tier"`

	LastLoginAt sql.NullTime `db:"last_login_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
