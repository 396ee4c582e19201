package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// Querier defines what the repository needs from the database layer.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository implements account data access operations.
type Repository struct {
	db Querier
}

// NewRepository creates a new accounts repository.
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

// CreateAccount inserts a new account row.
func (r *Repository) CreateAccount(ctx context.Context, username, email, passwordHash string) (*Account, error) {
	const q = `
		INSERT INTO accounts (id, username, email, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
		RETURNING id, username, email, password_hash, is_active, last_login, created_at`

	row := r.db.QueryRowContext(ctx, q, uuid.New(), username, email, passwordHash)
	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// GetAccountByUsername retrieves an account by username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	const q = `
		SELECT id, username, email, password_hash, is_active, last_login, created_at
		FROM accounts
		WHERE username = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, q, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return account, nil
}

// UpdateLastLogin stamps the account's last successful sign-in time.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE accounts SET last_login = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var lastLogin sql.NullTime
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsActive, &lastLogin, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return &a, nil
}
