package domain

import "time"

// Role enumerates the account roles. Only RoleAdmin carries extra privileges
// server-side; the rest drive frontend experiences.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleBusiness Role = "business"
	RoleEducator Role = "educator"
	RoleCreator  Role = "creator"
)

// Privileged reports whether the role may perform administrative operations,
// including granting privileged roles to other users.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleBusiness, RoleEducator, RoleCreator:
		return true
	}
	return false
}

// User is the stored shape of a user row, credential fields included. It never
// crosses the service boundary towards handlers; callers above the identity
// layer only ever see PublicUser (see Public).
type User struct {
	UserID        int64
	Username      string
	Email         string
	PasswordHash  *string // nil for social-only accounts
	EmailVerified bool

	VerificationToken          *string
	VerificationTokenExpiresAt *time.Time
	ResetToken                 *string
	ResetTokenExpiresAt        *time.Time

	FullName  string
	FirstName string
	LastName  string
	AvatarURL string
	Bio       string

	Role                Role
	OnboardingStep      int
	OnboardingCompleted bool
	Preferences         map[string]any

	BillingCustomerID     string
	BillingSubscriptionID string
	BillingTier           string

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPassword reports whether the user can authenticate with local credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// PublicUser is the credential-free shape returned by every API operation.
type PublicUser struct {
	UserID              int64          `json:"id"`
	Username            string         `json:"username"`
	Email               string         `json:"email"`
	EmailVerified       bool           `json:"emailVerified"`
	FullName            string         `json:"fullName,omitempty"`
	FirstName           string         `json:"firstName,omitempty"`
	LastName            string         `json:"lastName,omitempty"`
	AvatarURL           string         `json:"avatarUrl,omitempty"`
	Bio                 string         `json:"bio,omitempty"`
	Role                Role           `json:"role"`
	OnboardingStep      int            `json:"onboardingStep"`
	OnboardingCompleted bool           `json:"onboardingCompleted"`
	Preferences         map[string]any `json:"preferences,omitempty"`
	BillingTier         string         `json:"billingTier,omitempty"`
	LastLoginAt         *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// Public converts the stored user into its credential-free public shape. This
// is the single conversion point; nothing else strips fields ad hoc.
func (u *User) Public() PublicUser {
	return PublicUser{
		UserID:              u.UserID,
		Username:            u.Username,
		Email:               u.Email,
		EmailVerified:       u.EmailVerified,
		FullName:            u.FullName,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		AvatarURL:           u.AvatarURL,
		Bio:                 u.Bio,
		Role:                u.Role,
		OnboardingStep:      u.OnboardingStep,
		OnboardingCompleted: u.OnboardingCompleted,
		Preferences:         u.Preferences,
		BillingTier:         u.BillingTier,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
	}
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	FullName            *string
	FirstName           *string
	LastName            *string
	AvatarURL           *string
	Bio                 *string
	Role                *Role
	OnboardingStep      *int
	OnboardingCompleted *bool
	Preferences         map[string]any
}
