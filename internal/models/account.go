package models

import (
	"database/sql"
	"time"
)

// Account is the database row shape for the accounts table.
type Account struct {
	AccountID         int64          `db:"account_id"`
	UserID            int64          `db:"user_id"`
	Provider          string         `db:"provider"`
	ProviderAccountID string         `db:"provider_account_id"`
	AccessToken       sql.NullString `db:"access_token"`
	RefreshToken      sql.NullString `db:"refresh_token"`
	IDToken           sql.NullString `db:"id_token"`
	TokenExpiresAt    sql.NullTime   `db:"token_expires_at"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
