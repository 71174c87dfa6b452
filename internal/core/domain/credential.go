package domain

import "time"

// LocalCredential is a username/password pair presented at login.
type LocalCredential struct {
	Username string
	Password string
}

// OAuthProfile is the normalized identity a provider hands back after a
// successful authorization. Each provider service maps its own payload into
// this shape; the identity resolver only ever dispatches on it.
type OAuthProfile struct {
	Provider          Provider
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	DisplayName       string
	FirstName         string
	LastName          string
	AvatarURL         string

	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenExpiry  *time.Time
}
