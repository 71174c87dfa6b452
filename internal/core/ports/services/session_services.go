package services

import (
	"context"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// SessionSvcFacade manages the server-side login state referenced by the
// client-held opaque cookie token.
type SessionSvcFacade interface {
	// Establish creates a session bound to the user id with the configured
	// 30-day horizon and returns it, token included.
	Establish(ctx context.Context, userID int64) (*domain.Session, error)

	// CurrentUser rehydrates the credential-free user for a session token.
	// Unknown, destroyed and expired tokens all fail with
	// apperrors.ErrUnauthorized.
	CurrentUser(ctx context.Context, token string) (*domain.PublicUser, error)

	// Destroy tears the session down; the token is unauthenticated afterwards.
	Destroy(ctx context.Context, token string) error
}
