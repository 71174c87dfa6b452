package repositories

import (
	"context"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// SessionRepository is the generic get/set/destroy/expire session store
// contract. Implementations may be backed by Postgres or process memory.
// Get returns apperrors.ErrNotFound for unknown tokens.
type SessionRepository interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Set(ctx context.Context, session domain.Session) error
	Destroy(ctx context.Context, token string) error

	// DeleteExpired removes sessions past their horizon and reports how many
	// were swept. Expiry is also enforced on read; this is housekeeping.
	DeleteExpired(ctx context.Context) (int64, error)
}
