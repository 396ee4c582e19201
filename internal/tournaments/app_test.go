package tournaments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/showrunr/feud/internal/models"
)

type fakeRepo struct {
	byID    map[string]*models.Tournament
	byOwner map[uuid.UUID][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*models.Tournament),
		byOwner: make(map[uuid.UUID][]string),
	}
}

func (f *fakeRepo) CreateTournament(_ context.Context, userID uuid.UUID, t *models.Tournament) error {
	f.byID[t.ID] = t
	f.byOwner[userID] = append(f.byOwner[userID], t.ID)
	return nil
}

func (f *fakeRepo) GetTournament(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) ListTournamentsByUser(_ context.Context, userID uuid.UUID) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, id := range f.byOwner[userID] {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeRepo) UpdateTournament(_ context.Context, t *models.Tournament) error {
	if _, ok := f.byID[t.ID]; !ok {
		return ErrNotFound
	}
	f.byID[t.ID] = t
	return nil
}

func (f *fakeRepo) DeleteTournament(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestCreateTournamentSeedsBracketAndQuestions(t *testing.T) {
	app := NewApp(newFakeRepo())
	userID := uuid.New()

	tournament, err := app.CreateTournament(context.Background(), userID, CreateTournamentRequest{
		Name: "office cup",
		Mode: models.ModeRoundRobin,
		Teams: []models.TeamConfig{
			{Name: "A"}, {Name: "B"}, {Name: "C"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTournament: %v", err)
	}

	if len(tournament.Matches) != 3 {
		t.Errorf("matches = %d, want 3 for a 3-team round robin", len(tournament.Matches))
	}
	for _, m := range tournament.Matches {
		if len(m.Questions) != 5 {
			t.Errorf("match %s has %d question slots, want 5", m.ID, len(m.Questions))
		}
	}
	if tournament.Status != models.TournamentSetup {
		t.Errorf("status = %s, want setup", tournament.Status)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()

	if _, err := app.CreateTournament(ctx, uuid.New(), CreateTournamentRequest{
		Mode:  models.ModeRoundRobin,
		Teams: []models.TeamConfig{{Name: "A"}, {Name: "B"}},
	}); err == nil {
		t.Error("missing name should fail")
	}

	if _, err := app.CreateTournament(ctx, uuid.New(), CreateTournamentRequest{
		Name:  "solo",
		Mode:  models.ModeRoundRobin,
		Teams: []models.TeamConfig{{Name: "A"}},
	}); err == nil {
		t.Error("one team should fail")
	}
}

func TestGetAndListTournaments(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()
	owner := uuid.New()

	created, err := app.CreateTournament(ctx, owner, CreateTournamentRequest{
		Name:  "cup",
		Mode:  models.ModeRoundRobin,
		Teams: []models.TeamConfig{{Name: "A"}, {Name: "B"}},
	})
	if err != nil {
		t.Fatalf("CreateTournament: %v", err)
	}

	got, err := app.GetTournament(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTournament: %v", err)
	}
	if got.Name != "cup" {
		t.Errorf("Name = %s, want cup", got.Name)
	}

	list, err := app.ListTournaments(ctx, owner)
	if err != nil {
		t.Fatalf("ListTournaments: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	if _, err := app.GetTournament(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing tournament err = %v, want ErrNotFound", err)
	}
}

func TestSavePersistsInPlayMutations(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	created, err := app.CreateTournament(ctx, uuid.New(), CreateTournamentRequest{
		Name:  "cup",
		Mode:  models.ModeRoundRobin,
		Teams: []models.TeamConfig{{Name: "A"}, {Name: "B"}},
	})
	if err != nil {
		t.Fatalf("CreateTournament: %v", err)
	}

	created.Status = models.TournamentInProgress
	if err := app.Save(ctx, created); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.byID[created.ID].Status != models.TournamentInProgress {
		t.Error("Save did not persist the status change")
	}
}
