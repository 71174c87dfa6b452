package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{db: db}
}

// Ensure PgxSessionRepository implements portsrepo.SessionRepository
var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

func (r *PgxSessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	query := `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1;`
	var s domain.Session
	err := r.db.QueryRow(ctx, query, token).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &s, nil
}

func (r *PgxSessionRepository) Set(ctx context.Context, session domain.Session) error {
	query := `
        INSERT INTO sessions (token, user_id, created_at, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at;`
	_, err := r.db.Exec(ctx, query, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *PgxSessionRepository) Destroy(ctx context.Context, token string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1;`, token)
	if err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now();`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
