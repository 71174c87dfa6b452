package services

import (
	"context"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/echoverse/echoverse_backend/internal/dto"
)

// UserSvcFacade covers profile reads and updates for authenticated users.
type UserSvcFacade interface {
	// GetUserByID retrieves a user in its public shape.
	GetUserByID(ctx context.Context, userID int64) (*domain.PublicUser, error)

	// UpdateProfile applies a partial profile update on behalf of the acting
	// user. Granting a privileged role requires the actor to already hold one;
	// otherwise apperrors.ErrForbidden.
	UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest, actorRole domain.Role) (*domain.PublicUser, error)

	// ListLinkedAccounts returns the user's external provider links in their
	// client-safe shape.
	ListLinkedAccounts(ctx context.Context, userID int64) ([]dto.LinkedAccountResponse, error)
}
