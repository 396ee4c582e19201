package tournaments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/showrunr/feud/internal/models"
)

// ErrNotFound is returned when no tournament matches the lookup.
var ErrNotFound = errors.New("tournament not found")

// Querier defines what the repository needs from the database layer.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository implements tournament data access. The team list and the match
// list are stored as JSONB documents: the bracket is always read and written
// whole, so relational decomposition would buy nothing.
type Repository struct {
	db Querier
}

// NewRepository creates a new tournaments repository.
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

// CreateTournament inserts a tournament owned by the given host.
func (r *Repository) CreateTournament(ctx context.Context, userID uuid.UUID, t *models.Tournament) error {
	teams, matches, err := marshalDocs(t)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO tournaments (id, user_id, name, mode, status, teams, matches, current_match_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	_, err = r.db.ExecContext(ctx, q,
		t.ID, userID, t.Name, t.Mode, t.Status, teams, matches, t.CurrentMatchIndex, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

// GetTournament retrieves a tournament by ID.
func (r *Repository) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	const q = `
		SELECT id, name, mode, status, teams, matches, current_match_index, created_at
		FROM tournaments
		WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

// ListTournamentsByUser retrieves all tournaments owned by a host, newest
// first.
func (r *Repository) ListTournamentsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Tournament, error) {
	const q = `
		SELECT id, name, mode, status, teams, matches, current_match_index, created_at
		FROM tournaments
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	var out []*models.Tournament
	for rows.Next() {
		t, err := scanTournamentRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTournament rewrites a tournament's mutable columns.
func (r *Repository) UpdateTournament(ctx context.Context, t *models.Tournament) error {
	teams, matches, err := marshalDocs(t)
	if err != nil {
		return err
	}

	const q = `
		UPDATE tournaments
		SET name = $2, mode = $3, status = $4, teams = $5, matches = $6,
		    current_match_index = $7, updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q,
		t.ID, t.Name, t.Mode, t.Status, teams, matches, t.CurrentMatchIndex)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTournament removes a tournament by ID.
func (r *Repository) DeleteTournament(ctx context.Context, id string) error {
	const q = `DELETE FROM tournaments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalDocs(t *models.Tournament) (pqtype.NullRawMessage, pqtype.NullRawMessage, error) {
	teams, err := json.Marshal(t.Teams)
	if err != nil {
		return pqtype.NullRawMessage{}, pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal teams: %w", err)
	}
	matches, err := json.Marshal(t.Matches)
	if err != nil {
		return pqtype.NullRawMessage{}, pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal matches: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: teams, Valid: true},
		pqtype.NullRawMessage{RawMessage: matches, Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	var teams, matches pqtype.NullRawMessage
	err := row.Scan(&t.ID, &t.Name, &t.Mode, &t.Status, &teams, &matches, &t.CurrentMatchIndex, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if teams.Valid {
		if err := json.Unmarshal(teams.RawMessage, &t.Teams); err != nil {
			return nil, fmt.Errorf("failed to unmarshal teams: %w", err)
		}
	}
	if matches.Valid {
		if err := json.Unmarshal(matches.RawMessage, &t.Matches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
	}
	return &t, nil
}

func scanTournamentRows(rows *sql.Rows) (*models.Tournament, error) {
	return scanTournament(rows)
}
