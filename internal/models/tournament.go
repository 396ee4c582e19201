package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus tracks the lifecycle of a match. Transitions are monotonic:
// pending -> in-progress -> completed, never backwards.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in-progress"
	MatchCompleted  MatchStatus = "completed"
)

// TournamentMode selects how matches are generated from the team list.
type TournamentMode string

const (
	ModeRoundRobin        TournamentMode = "roundrobin"
	ModeSingleElimination TournamentMode = "single"
	ModeDoubleElimination TournamentMode = "double"
)

// TournamentStatus tracks the overall tournament lifecycle.
type TournamentStatus string

const (
	TournamentSetup      TournamentStatus = "setup"
	TournamentInProgress TournamentStatus = "in-progress"
	TournamentCompleted  TournamentStatus = "completed"
)

// MatchQuestion is one prepared question slot for a match, one per round.
type MatchQuestion struct {
	ID         string   `json:"id"`
	Round      Round    `json:"round"`
	Question   string   `json:"question"`
	Answers    []Answer `json:"answers"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// Match is one contest between two teams. Team slots may hold a placeholder
// ("winner:<matchID>" / "loser:<matchID>") until the feeding match completes.
type Match struct {
	ID                   string          `json:"id"`
	Team1ID              string          `json:"team1Id"`
	Team2ID              string          `json:"team2Id"`
	WinnerID             string          `json:"winnerId,omitempty"`
	Score1               *int            `json:"score1,omitempty"`
	Score2               *int            `json:"score2,omitempty"`
	Status               MatchStatus     `json:"status"`
	Questions            []MatchQuestion `json:"questions"`
	CurrentRound         Round           `json:"currentRound"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"`

	// The match's own last-known display state, so an interrupted match can
	// resume on the page it was showing.
	GameState GameState `json:"gameState"`
}

// LoserID returns the ID of the losing side of a completed match, or "".
func (m *Match) LoserID() string {
	if m.Status != MatchCompleted || m.WinnerID == "" {
		return ""
	}
	if m.WinnerID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

// QuestionForRound returns the prepared question for a round, or nil.
func (m *Match) QuestionForRound(r Round) *MatchQuestion {
	for i := range m.Questions {
		if m.Questions[i].Round == r {
			return &m.Questions[i]
		}
	}
	return nil
}

// Tournament groups teams and the matches generated from the selected mode.
type Tournament struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Mode              TournamentMode   `json:"mode"`
	Teams             []TeamConfig     `json:"teams"`
	Matches           []Match          `json:"matches"`
	Status            TournamentStatus `json:"status"`
	CurrentMatchIndex int              `json:"currentMatchIndex"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// CurrentMatch returns the match at CurrentMatchIndex, or nil when the index
// does not address a valid element.
func (t *Tournament) CurrentMatch() *Match {
	if t == nil || t.CurrentMatchIndex < 0 || t.CurrentMatchIndex >= len(t.Matches) {
		return nil
	}
	return &t.Matches[t.CurrentMatchIndex]
}

// MatchByID returns the match with the given ID, or nil.
func (t *Tournament) MatchByID(id string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i]
		}
	}
	return nil
}

// User is an authenticated host account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
