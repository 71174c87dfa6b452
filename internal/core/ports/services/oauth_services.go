package services

import (
	"context"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"golang.org/x/oauth2"
)

// OAuthProviderSvc is the per-provider OAuth flow: state generation, the
// redirect URL, code exchange and profile retrieval. Providers are registered
// only when their client id/secret pair is configured.
type OAuthProviderSvc interface {
	Provider() domain.Provider

	// GenerateStateString creates a secure random string used as the CSRF
	// token for the redirect round-trip.
	GenerateStateString(ctx context.Context) (string, error)

	// AuthCodeURL returns the provider URL to redirect the user to.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges an authorization code for a provider token.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile resolves the provider token into a normalized profile.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*domain.OAuthProfile, error)
}
