// Package tournaments owns tournament setup and persistence. Bracket shape
// comes from the bracket package; this layer validates, stores, and hands
// matches to the control service.
package tournaments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/bracket"
	"github.com/showrunr/feud/internal/models"
)

// CreateTournamentRequest carries host input for a new tournament.
type CreateTournamentRequest struct {
	Name  string                `json:"name"`
	Mode  models.TournamentMode `json:"mode"`
	Teams []models.TeamConfig   `json:"teams"`
}

// TournamentsRepository defines what the app layer needs from the repository.
type TournamentsRepository interface {
	CreateTournament(ctx context.Context, userID uuid.UUID, t *models.Tournament) error
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournamentsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Tournament, error)
	UpdateTournament(ctx context.Context, t *models.Tournament) error
	DeleteTournament(ctx context.Context, id string) error
}

// App handles tournament business logic.
type App struct {
	repo TournamentsRepository
}

// NewApp creates a new tournaments App.
func NewApp(repo TournamentsRepository) *App {
	return &App{repo: repo}
}

// CreateTournament generates the bracket for the requested mode, seeds each
// match with its five question slots, and persists the result.
func (a *App) CreateTournament(ctx context.Context, userID uuid.UUID, req CreateTournamentRequest) (*models.Tournament, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("tournament name is required")
	}

	t, err := bracket.NewTournament(req.Name, req.Mode, req.Teams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bracket: %w", err)
	}
	for i := range t.Matches {
		if err := bracket.CreateMatchQuestions(t, t.Matches[i].ID); err != nil {
			return nil, fmt.Errorf("failed to seed match questions: %w", err)
		}
	}

	if err := a.repo.CreateTournament(ctx, userID, t); err != nil {
		return nil, err
	}

	log.Info().
		Str("tournament_id", t.ID).
		Str("mode", string(t.Mode)).
		Int("matches", len(t.Matches)).
		Msg("tournament created")
	return t, nil
}

// GetTournament retrieves a tournament by ID.
func (a *App) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return a.repo.GetTournament(ctx, id)
}

// ListTournaments retrieves all tournaments owned by a host.
func (a *App) ListTournaments(ctx context.Context, userID uuid.UUID) ([]*models.Tournament, error) {
	return a.repo.ListTournamentsByUser(ctx, userID)
}

// UpdateTournament rewrites a tournament, used by the host editor.
func (a *App) UpdateTournament(ctx context.Context, t *models.Tournament) (*models.Tournament, error) {
	if err := a.repo.UpdateTournament(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTournament removes a tournament.
func (a *App) DeleteTournament(ctx context.Context, id string) error {
	return a.repo.DeleteTournament(ctx, id)
}

// Save persists in-play tournament mutations coming from the control
// service.
func (a *App) Save(ctx context.Context, t *models.Tournament) error {
	return a.repo.UpdateTournament(ctx, t)
}
