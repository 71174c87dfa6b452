package domain

import "time"

// Provider identifies an identity source.
type Provider string

const (
	ProviderGoogle      Provider = "google"
	ProviderGitHub      Provider = "github"
	ProviderCredentials Provider = "credentials"
)

// Account links one external identity to a user. The pair
// (Provider, ProviderAccountID) is unique across the system; a user may hold
// one Account per provider. Credentials-only users have no Account rows.
type Account struct {
	AccountID         int64
	UserID            int64
	Provider          Provider
	ProviderAccountID string
	AccessToken       string
	RefreshToken      string
	IDToken           string
	TokenExpiresAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
