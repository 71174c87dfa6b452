package repositories

import (
	"context"
	"time"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// AccountRepository is the persistence gateway for external identity links.
// The (provider, providerAccountID) pair is unique; a duplicate create
// surfaces as apperrors.ErrDuplicate.
type AccountRepository interface {
	FindAccountByProvider(ctx context.Context, provider domain.Provider, providerAccountID string) (*domain.Account, error)

	// CreateAccount inserts the link and returns the row with its assigned id.
	CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccountTokens refreshes the stored provider tokens after a repeat
	// login through the same provider.
	UpdateAccountTokens(ctx context.Context, accountID int64, accessToken, refreshToken, idToken string, expiresAt *time.Time) error

	// ListAccountsByUser returns all provider links owned by the user.
	ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
}
