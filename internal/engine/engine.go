// Package engine holds the pure scoring and round arithmetic for a match.
// Nothing here does I/O; every operation mutates a GameSnapshot in place and
// the caller decides when to persist and announce the result.
package engine

import (
	"errors"
	"fmt"

	"github.com/showrunr/feud/internal/models"
)

const maxStrikes = 3

var (
	// ErrNoQuestion is returned when an answer operation runs with no
	// question loaded on the board.
	ErrNoQuestion = errors.New("no question loaded")

	// ErrNotRevealed is returned when points are awarded for an answer the
	// host has not revealed yet. Reveal and award are distinct host actions.
	ErrNotRevealed = errors.New("answer not revealed")
)

// PointMultiplier returns the score multiplier for a round. The table is
// fixed: rounds 3 and 4 are both triple, the tiebreaker is back to single.
func PointMultiplier(r models.Round) int {
	switch r {
	case models.Round2:
		return 2
	case models.Round3, models.Round4:
		return 3
	default:
		return 1
	}
}

// RoundName returns the display banner for a round.
func RoundName(r models.Round) string {
	switch r {
	case models.Round1:
		return "Round 1"
	case models.Round2:
		return "Round 2 - Double Points"
	case models.Round3:
		return "Round 3 - Triple Points"
	case models.Round4:
		return "Round 4 - Triple Points"
	case models.RoundTiebreaker:
		return "Tie Breaker"
	}
	return "Round 1"
}

// LoadQuestion puts a question on the board and sizes the reveal and award
// tracking to its answer count, all hidden.
func LoadQuestion(s *models.GameSnapshot, q *models.Question) {
	s.CurrentQuestion = q
	if q == nil {
		s.RevealedAnswers = nil
		s.AwardedAnswers = nil
		s.AllAnswersRevealed = false
		return
	}
	s.RevealedAnswers = make([]bool, len(q.Answers))
	s.AwardedAnswers = make([]bool, len(q.Answers))
	s.AllAnswersRevealed = false
}

// RevealAnswer flips one answer face-up. Revealing is idempotent and never
// scores; committing points to the round pool is a separate host action.
func RevealAnswer(s *models.GameSnapshot, index int) error {
	if s.CurrentQuestion == nil {
		return ErrNoQuestion
	}
	if index < 0 || index >= len(s.RevealedAnswers) {
		return fmt.Errorf("answer index %d out of range [0,%d)", index, len(s.RevealedAnswers))
	}
	s.RevealedAnswers[index] = true
	s.AllAnswersRevealed = allTrue(s.RevealedAnswers)
	return nil
}

// AwardToRoundPool adds a revealed answer's points, scaled by the round
// multiplier, to the round pool. Awarding the same answer twice is a no-op so
// a double-clicked board never double counts.
func AwardToRoundPool(s *models.GameSnapshot, index int) error {
	if s.CurrentQuestion == nil {
		return ErrNoQuestion
	}
	// Bound against the tracking slices too: a snapshot restored from an
	// older write can carry tracking shorter than the question's answers.
	n := len(s.CurrentQuestion.Answers)
	if len(s.RevealedAnswers) < n {
		n = len(s.RevealedAnswers)
	}
	if len(s.AwardedAnswers) < n {
		n = len(s.AwardedAnswers)
	}
	if index < 0 || index >= n {
		return fmt.Errorf("answer index %d out of range [0,%d)", index, n)
	}
	if !s.RevealedAnswers[index] {
		return ErrNotRevealed
	}
	if s.AwardedAnswers[index] {
		return nil
	}
	s.AwardedAnswers[index] = true
	s.RoundScore += s.CurrentQuestion.Answers[index].Points * PointMultiplier(s.CurrentRound)
	return nil
}

// CommitRoundPool moves the entire round pool into the given team's
// cumulative score and zeroes the pool. This is the only path by which pool
// points become permanent. An empty pool is a no-op, not an error.
func CommitRoundPool(s *models.GameSnapshot, team models.Team) {
	if s.RoundScore == 0 {
		return
	}
	if team == models.Team1 {
		s.Team1Score += s.RoundScore
	} else {
		s.Team2Score += s.RoundScore
	}
	s.RoundScore = 0
}

// Strike records one wrong answer, capped at three. The fourth strike never
// increments; the host resolves it with a turn change or a steal. Each call
// raises the transient strike overlay for the viewers.
func Strike(s *models.GameSnapshot) {
	if s.Strikes < maxStrikes {
		s.Strikes++
	}
	s.ShowStrikeOverlay = true
}

// ResetStrikes zeroes the strike count and drops the overlay. Used when
// control passes to the other team or a new question starts.
func ResetStrikes(s *models.GameSnapshot) {
	s.Strikes = 0
	s.ShowStrikeOverlay = false
}

// PassOrPlayChoice is the face-off winner's decision.
type PassOrPlayChoice string

const (
	ChoicePass PassOrPlayChoice = "pass"
	ChoicePlay PassOrPlayChoice = "play"
)

// PassOrPlay applies the face-off winner's decision: pass hands the board to
// the other team, play keeps it. Either way the prompt overlay clears and the
// game moves to play.
func PassOrPlay(s *models.GameSnapshot, choice PassOrPlayChoice) {
	if choice == ChoicePass {
		s.CurrentTeam = s.CurrentTeam.Other()
	}
	s.ShowPassOrPlayOverlay = false
	s.GameState = models.StateGamePlay
}

// StealResult is the outcome of a steal attempt.
type StealResult string

const (
	StealSuccess StealResult = "success"
	StealFail    StealResult = "fail"
)

// ResolveSteal settles a steal attempt after three strikes. On success the
// non-controlling team takes the round pool; on failure the controlling team
// keeps it. Both branches zero the pool and the strikes and drop the overlay.
func ResolveSteal(s *models.GameSnapshot, result StealResult) {
	if result == StealSuccess {
		CommitRoundPool(s, s.CurrentTeam.Other())
	} else {
		CommitRoundPool(s, s.CurrentTeam)
	}
	s.RoundScore = 0
	s.Strikes = 0
	s.ShowStrikeOverlay = false
	s.ShowStealOverlay = false
}

// AdvanceRound moves the match to the next round, loading that round's
// question and clearing per-round state. Entering the tiebreaker zeroes both
// displayed team scores: the tiebreaker is played from scratch, while the
// match record keeps the earlier rounds. At the tiebreaker this is a no-op.
func AdvanceRound(s *models.GameSnapshot, next *models.Question) {
	if s.CurrentRound == models.RoundTiebreaker {
		return
	}
	s.CurrentRound = models.NextRound(s.CurrentRound)
	if s.CurrentRound == models.RoundTiebreaker {
		s.Team1Score = 0
		s.Team2Score = 0
	}
	s.RoundScore = 0
	ResetStrikes(s)
	s.ShowRoundSummary = false
	LoadQuestion(s, next)
}

func allTrue(b []bool) bool {
	if len(b) == 0 {
		return false
	}
	for _, v := range b {
		if !v {
			return false
		}
	}
	return true
}
