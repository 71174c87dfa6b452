package services

import (
	"context"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/echoverse/echoverse_backend/internal/dto"
)

// IdentityResolverSvc turns a presented credential into an authenticated user.
// Credentials are tagged variants (local pair or provider profile) dispatched
// through one method each; there is no pluggable strategy registration.
// Every output is the credential-free PublicUser shape.
type IdentityResolverSvc interface {
	// Register creates a local-credential user, issues its email verification
	// token and dispatches the verification mail. Mail failure never rolls the
	// registration back.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.PublicUser, error)

	// ResolveLocal authenticates a username/password pair. A missing user, a
	// social-only account and a wrong password all fail with the same
	// apperrors.ErrInvalidCredentials.
	ResolveLocal(ctx context.Context, cred domain.LocalCredential) (*domain.PublicUser, error)

	// ResolveOAuth applies the provider linking precedence: existing account
	// link, then email match (account linking), then a fresh user. The bool is
	// true when a new user was created, which drives the onboarding redirect.
	ResolveOAuth(ctx context.Context, profile domain.OAuthProfile) (*domain.PublicUser, bool, error)
}
