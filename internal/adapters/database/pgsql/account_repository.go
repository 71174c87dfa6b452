package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	"github.com/echoverse/echoverse_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `
	account_id, user_id, provider, provider_account_id,
	access_token, refresh_token, id_token, token_expires_at,
	created_at, updated_at`

type PgxAccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{db: db}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func toDomainAccount(m models.Account) domain.Account {
	a := domain.Account{
		AccountID:         m.AccountID,
		UserID:            m.UserID,
		Provider:          domain.Provider(m.Provider),
		ProviderAccountID: m.ProviderAccountID,
		AccessToken:       m.AccessToken.String,
		RefreshToken:      m.RefreshToken.String,
		IDToken:           m.IDToken.String,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.TokenExpiresAt.Valid {
		t := m.TokenExpiresAt.Time
		a.TokenExpiresAt = &t
	}
	return a
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Provider,
		&m.ProviderAccountID,
		&m.AccessToken,
		&m.RefreshToken,
		&m.IDToken,
		&m.TokenExpiresAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	a := toDomainAccount(m)
	return &a, nil
}

func (r *PgxAccountRepository) FindAccountByProvider(ctx context.Context, provider domain.Provider, providerAccountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE provider = $1 AND provider_account_id = $2;`
	account, err := scanAccount(r.db.QueryRow(ctx, query, string(provider), providerAccountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account for provider %s: %w", provider, err)
	}
	return account, nil
}

func (r *PgxAccountRepository) CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (user_id, provider, provider_account_id, access_token, refresh_token, id_token, token_expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + accountColumns + `;`

	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.UserID,
		string(account.Provider),
		account.ProviderAccountID,
		account.AccessToken,
		account.RefreshToken,
		account.IDToken,
		account.TokenExpiresAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create account link: %w", err)
	}
	return created, nil
}

func (r *PgxAccountRepository) UpdateAccountTokens(ctx context.Context, accountID int64, accessToken, refreshToken, idToken string, expiresAt *time.Time) error {
	query := `
        UPDATE accounts
        SET access_token = $1, refresh_token = $2, id_token = $3, token_expires_at = $4, updated_at = now()
        WHERE account_id = $5;`
	cmdTag, err := r.db.Exec(ctx, query, accessToken, refreshToken, idToken, expiresAt, accountID)
	if err != nil {
		return fmt.Errorf("failed to update account tokens: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %d: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}
	return accounts, nil
}
