// Package bracket generates and advances tournament match structures. The
// team counts involved are small, so this is data plumbing rather than a
// scheduling algorithm.
package bracket

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/showrunr/feud/internal/models"
)

var (
	// ErrMatchNotFound is returned when a match ID is not in the tournament.
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchCompleted is returned when completing an already completed
	// match; the pending -> in-progress -> completed walk is monotonic.
	ErrMatchCompleted = errors.New("match already completed")

	// ErrTooFewTeams is returned when a bracket is requested for fewer teams
	// than the mode needs.
	ErrTooFewTeams = errors.New("not enough teams")
)

// Placeholder team slots used by elimination brackets until the feeding
// match completes.
func winnerSlot(matchID string) string { return "winner:" + matchID }
func loserSlot(matchID string) string  { return "loser:" + matchID }

func newMatch(id, team1, team2 string) models.Match {
	return models.Match{
		ID:           id,
		Team1ID:      team1,
		Team2ID:      team2,
		Status:       models.MatchPending,
		Questions:    []models.MatchQuestion{},
		CurrentRound: models.Round1,
		GameState:    models.StateIdle,
	}
}

// NewTournament builds a tournament with matches generated from the mode.
func NewTournament(name string, mode models.TournamentMode, teams []models.TeamConfig) (*models.Tournament, error) {
	if len(teams) < 2 {
		return nil, ErrTooFewTeams
	}

	var matches []models.Match
	var err error
	switch mode {
	case models.ModeRoundRobin:
		matches = GenerateRoundRobin(teams)
	case models.ModeSingleElimination, models.ModeDoubleElimination:
		// Elimination brackets only come in the three-team shape.
		matches, err = GenerateThreeTeamBracket(teams)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown tournament mode %q", mode)
	}

	return &models.Tournament{
		ID:        uuid.New().String(),
		Name:      name,
		Mode:      mode,
		Teams:     teams,
		Matches:   matches,
		Status:    models.TournamentSetup,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GenerateRoundRobin produces one pending match per unordered pair of
// distinct teams: N teams yield N*(N-1)/2 matches.
func GenerateRoundRobin(teams []models.TeamConfig) []models.Match {
	var matches []models.Match
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			id := fmt.Sprintf("match-%d-%d", i, j)
			matches = append(matches, newMatch(id, teams[i].Name, teams[j].Name))
		}
	}
	return matches
}

// GenerateThreeTeamBracket produces the fixed three-team shape:
// match 1 pits the first two teams, match 2 pits the match-1 winner against
// the third team, and match 3 is the placement game between the two losers.
func GenerateThreeTeamBracket(teams []models.TeamConfig) ([]models.Match, error) {
	if len(teams) != 3 {
		return nil, fmt.Errorf("%w: three-team bracket needs exactly 3 teams, got %d", ErrTooFewTeams, len(teams))
	}
	m1 := newMatch("match-1", teams[0].Name, teams[1].Name)
	m2 := newMatch("match-2", winnerSlot(m1.ID), teams[2].Name)
	m3 := newMatch("match-3", loserSlot(m1.ID), loserSlot(m2.ID))
	return []models.Match{m1, m2, m3}, nil
}

// Result carries the final scores of a completed match.
type Result struct {
	Score1 int
	Score2 int
	// WinnerID may be left empty to derive the winner from the scores.
	WinnerID string
}

// CompleteMatch marks a match completed, records the result, resolves any
// downstream placeholder slots that were waiting on it, and advances the
// tournament to the next unfinished match.
func CompleteMatch(t *models.Tournament, matchID string, result Result) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if m.Status == models.MatchCompleted {
		return ErrMatchCompleted
	}

	s1, s2 := result.Score1, result.Score2
	m.Score1, m.Score2 = &s1, &s2
	m.WinnerID = result.WinnerID
	if m.WinnerID == "" {
		if s1 >= s2 {
			m.WinnerID = m.Team1ID
		} else {
			m.WinnerID = m.Team2ID
		}
	}
	m.Status = models.MatchCompleted

	resolveSlots(t, m)
	advance(t)
	return nil
}

// StartMatch marks a pending match in progress and points the tournament at it.
func StartMatch(t *models.Tournament, matchID string) error {
	for i := range t.Matches {
		if t.Matches[i].ID != matchID {
			continue
		}
		if t.Matches[i].Status == models.MatchCompleted {
			return ErrMatchCompleted
		}
		t.Matches[i].Status = models.MatchInProgress
		t.CurrentMatchIndex = i
		if t.Status == models.TournamentSetup {
			t.Status = models.TournamentInProgress
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
}

// resolveSlots fills winner/loser placeholders in later matches once the
// feeding match has a result.
func resolveSlots(t *models.Tournament, completed *models.Match) {
	winner, loser := completed.WinnerID, completed.LoserID()
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Team1ID == winnerSlot(completed.ID) {
			m.Team1ID = winner
		}
		if m.Team2ID == winnerSlot(completed.ID) {
			m.Team2ID = winner
		}
		if m.Team1ID == loserSlot(completed.ID) {
			m.Team1ID = loser
		}
		if m.Team2ID == loserSlot(completed.ID) {
			m.Team2ID = loser
		}
	}
}

// advance moves CurrentMatchIndex to the first match that is not completed,
// or marks the tournament completed when none remain.
func advance(t *models.Tournament) {
	for i := range t.Matches {
		if t.Matches[i].Status != models.MatchCompleted {
			t.CurrentMatchIndex = i
			return
		}
	}
	t.CurrentMatchIndex = len(t.Matches) - 1
	t.Status = models.TournamentCompleted
}

// CreateMatchQuestions populates the five question slots for a match, one per
// round plus the tiebreaker, for the host to fill in before play.
func CreateMatchQuestions(t *models.Tournament, matchID string) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if len(m.Questions) > 0 {
		return nil
	}
	for _, r := range models.RoundOrder {
		difficulty := "medium"
		if r == models.RoundTiebreaker {
			difficulty = "hard"
		}
		m.Questions = append(m.Questions, models.MatchQuestion{
			ID:         fmt.Sprintf("%s-round%s", matchID, r),
			Round:      r,
			Answers:    []models.Answer{{}},
			Category:   "general",
			Difficulty: difficulty,
		})
	}
	return nil
}

// Standing is one row of the final tournament ranking.
type Standing struct {
	Position int    `json:"position"`
	TeamID   string `json:"teamId"`
	Wins     int    `json:"wins"`
	Points   int    `json:"points"`
}

// FinalStandings ranks the teams of a finished tournament. For the three-team
// bracket the ranking follows the match structure: the final's winner is
// first, the placement match decides second and third. Round-robin ranks by
// wins, then total points.
func FinalStandings(t *models.Tournament) ([]Standing, error) {
	if t.Status != models.TournamentCompleted {
		return nil, errors.New("tournament not completed")
	}

	if t.Mode != models.ModeRoundRobin && len(t.Matches) == 3 {
		final := &t.Matches[1]
		placement := &t.Matches[2]
		return []Standing{
			{Position: 1, TeamID: final.WinnerID},
			{Position: 2, TeamID: placement.WinnerID},
			{Position: 3, TeamID: placement.LoserID()},
		}, nil
	}

	tally := make(map[string]*Standing)
	for _, team := range t.Teams {
		tally[team.Name] = &Standing{TeamID: team.Name}
	}
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Status != models.MatchCompleted {
			continue
		}
		if row, ok := tally[m.WinnerID]; ok {
			row.Wins++
		}
		if m.Score1 != nil {
			if row, ok := tally[m.Team1ID]; ok {
				row.Points += *m.Score1
			}
		}
		if m.Score2 != nil {
			if row, ok := tally[m.Team2ID]; ok {
				row.Points += *m.Score2
			}
		}
	}

	standings := make([]Standing, 0, len(tally))
	for _, row := range tally {
		standings = append(standings, *row)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings, nil
}
