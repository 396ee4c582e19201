package bracket

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/showrunr/feud/internal/models"
)

func teams(names ...string) []models.TeamConfig {
	out := make([]models.TeamConfig, len(names))
	for i, n := range names {
		out[i] = models.TeamConfig{Name: n}
	}
	return out
}

func TestGenerateRoundRobin(t *testing.T) {
	matches := GenerateRoundRobin(teams("A", "B", "C", "D"))
	if len(matches) != 6 {
		t.Fatalf("4 teams produced %d matches, want 6", len(matches))
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		if m.Team1ID == m.Team2ID {
			t.Errorf("match %s pits %s against itself", m.ID, m.Team1ID)
		}
		pair := m.Team1ID + "|" + m.Team2ID
		if seen[pair] {
			t.Errorf("duplicate pairing %s", pair)
		}
		seen[pair] = true
		if m.Status != models.MatchPending {
			t.Errorf("match %s status = %s, want pending", m.ID, m.Status)
		}
	}
}

func TestGenerateThreeTeamBracket(t *testing.T) {
	matches, err := GenerateThreeTeamBracket(teams("A", "B", "C"))
	if err != nil {
		t.Fatalf("GenerateThreeTeamBracket: %v", err)
	}

	want := []struct{ team1, team2 string }{
		{"A", "B"},
		{"winner:match-1", "C"},
		{"loser:match-1", "loser:match-2"},
	}
	for i, w := range want {
		if matches[i].Team1ID != w.team1 || matches[i].Team2ID != w.team2 {
			t.Errorf("match %d = %s vs %s, want %s vs %s",
				i+1, matches[i].Team1ID, matches[i].Team2ID, w.team1, w.team2)
		}
	}

	if _, err := GenerateThreeTeamBracket(teams("A", "B")); !errors.Is(err, ErrTooFewTeams) {
		t.Errorf("two teams: err = %v, want ErrTooFewTeams", err)
	}
}

func TestCompleteMatchResolvesSlots(t *testing.T) {
	tournament, err := NewTournament("finals", models.ModeSingleElimination, teams("A", "B", "C"))
	if err != nil {
		t.Fatalf("NewTournament: %v", err)
	}

	if err := CompleteMatch(tournament, "match-1", Result{Score1: 100, Score2: 80}); err != nil {
		t.Fatalf("CompleteMatch: %v", err)
	}

	m2 := tournament.MatchByID("match-2")
	if m2.Team1ID != "A" {
		t.Errorf("match-2 team1 = %s, want A", m2.Team1ID)
	}
	m3 := tournament.MatchByID("match-3")
	if m3.Team1ID != "B" {
		t.Errorf("match-3 team1 = %s, want B", m3.Team1ID)
	}
	if tournament.CurrentMatchIndex != 1 {
		t.Errorf("CurrentMatchIndex = %d, want 1", tournament.CurrentMatchIndex)
	}
}

func TestCompleteMatchIsMonotonic(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B"))
	id := tournament.Matches[0].ID

	if err := CompleteMatch(tournament, id, Result{Score1: 10, Score2: 20}); err != nil {
		t.Fatalf("CompleteMatch: %v", err)
	}
	if err := CompleteMatch(tournament, id, Result{Score1: 99, Score2: 0}); !errors.Is(err, ErrMatchCompleted) {
		t.Errorf("second completion err = %v, want ErrMatchCompleted", err)
	}
	if err := CompleteMatch(tournament, "nope", Result{}); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("unknown match err = %v, want ErrMatchNotFound", err)
	}
}

func TestCompleteMatchDerivesWinner(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B"))
	id := tournament.Matches[0].ID

	// Ties break to team 1.
	if err := CompleteMatch(tournament, id, Result{Score1: 50, Score2: 50}); err != nil {
		t.Fatalf("CompleteMatch: %v", err)
	}
	if got := tournament.Matches[0].WinnerID; got != "A" {
		t.Errorf("tie winner = %s, want A", got)
	}
}

func TestTournamentCompletion(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeSingleElimination, teams("A", "B", "C"))

	CompleteMatch(tournament, "match-1", Result{Score1: 100, Score2: 80}) // A beats B
	CompleteMatch(tournament, "match-2", Result{Score1: 90, Score2: 60}) // A beats C
	if tournament.Status == models.TournamentCompleted {
		t.Fatal("tournament completed with the placement match still pending")
	}
	CompleteMatch(tournament, "match-3", Result{Score1: 40, Score2: 70}) // C beats B

	if tournament.Status != models.TournamentCompleted {
		t.Fatalf("Status = %s, want completed", tournament.Status)
	}

	standings, err := FinalStandings(tournament)
	if err != nil {
		t.Fatalf("FinalStandings: %v", err)
	}
	want := []Standing{
		{Position: 1, TeamID: "A"},
		{Position: 2, TeamID: "C"},
		{Position: 3, TeamID: "B"},
	}
	if diff := cmp.Diff(want, standings); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundRobinStandings(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B", "C"))

	// A beats B, A beats C, B beats C: A 2 wins, B 1, C 0.
	CompleteMatch(tournament, "match-0-1", Result{Score1: 100, Score2: 50})
	CompleteMatch(tournament, "match-0-2", Result{Score1: 90, Score2: 70})
	CompleteMatch(tournament, "match-1-2", Result{Score1: 60, Score2: 40})

	standings, err := FinalStandings(tournament)
	if err != nil {
		t.Fatalf("FinalStandings: %v", err)
	}
	order := []string{"A", "B", "C"}
	for i, want := range order {
		if standings[i].TeamID != want {
			t.Errorf("position %d = %s, want %s", i+1, standings[i].TeamID, want)
		}
	}
	if standings[0].Wins != 2 || standings[0].Points != 190 {
		t.Errorf("A: wins=%d points=%d, want 2/190", standings[0].Wins, standings[0].Points)
	}
}

func TestFinalStandingsRequiresCompletion(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B"))
	if _, err := FinalStandings(tournament); err == nil {
		t.Error("FinalStandings on an unfinished tournament should fail")
	}
}

func TestStartMatch(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B", "C"))

	if err := StartMatch(tournament, "match-1-2"); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	if tournament.Status != models.TournamentInProgress {
		t.Errorf("Status = %s, want in-progress", tournament.Status)
	}
	m := tournament.CurrentMatch()
	if m == nil || m.ID != "match-1-2" {
		t.Fatalf("CurrentMatch = %v, want match-1-2", m)
	}
	if m.Status != models.MatchInProgress {
		t.Errorf("match status = %s, want in-progress", m.Status)
	}
}

func TestCreateMatchQuestions(t *testing.T) {
	tournament, _ := NewTournament("t", models.ModeRoundRobin, teams("A", "B"))
	id := tournament.Matches[0].ID

	if err := CreateMatchQuestions(tournament, id); err != nil {
		t.Fatalf("CreateMatchQuestions: %v", err)
	}
	m := tournament.MatchByID(id)
	if len(m.Questions) != 5 {
		t.Fatalf("question slots = %d, want 5", len(m.Questions))
	}
	for _, q := range m.Questions {
		want := "medium"
		if q.Round == models.RoundTiebreaker {
			want = "hard"
		}
		if q.Difficulty != want {
			t.Errorf("round %s difficulty = %s, want %s", q.Round, q.Difficulty, want)
		}
	}

	// Seeding is idempotent.
	if err := CreateMatchQuestions(tournament, id); err != nil {
		t.Fatalf("CreateMatchQuestions repeat: %v", err)
	}
	if len(tournament.MatchByID(id).Questions) != 5 {
		t.Error("repeat seeding duplicated question slots")
	}
}
