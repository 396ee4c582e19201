// Package control implements the host's side of the show: every button on
// the control panel lands here as one mutate -> persist -> announce sequence
// against the shared snapshot. Viewers never write authoritative state; this
// service is the single writer, and two control panels running at once are
// last-write-wins by design.
package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/bracket"
	"github.com/showrunr/feud/internal/broadcast"
	"github.com/showrunr/feud/internal/engine"
	"github.com/showrunr/feud/internal/models"
	"github.com/showrunr/feud/internal/snapshot"
)

const (
	// strikeOverlayDuration is how long the big X stays on the viewers.
	strikeOverlayDuration = 1200 * time.Millisecond

	// commitDelay is the count-up animation window between the host awarding
	// the pool and the points landing on the team score.
	commitDelay = 2 * time.Second

	// pingInterval paces the liveness pings viewers use for their
	// connected indicator.
	pingInterval = 2 * time.Second
)

// TournamentSaver persists tournament mutations. Nil is allowed; the show
// then runs without durable tournament storage.
type TournamentSaver interface {
	Save(ctx context.Context, t *models.Tournament) error
}

// Service owns all authoritative game mutations.
type Service struct {
	store       snapshot.Store
	channel     broadcast.Channel
	tournaments TournamentSaver
	clock       clockwork.Clock

	mu sync.Mutex

	timersMu    sync.Mutex
	strikeTimer clockwork.Timer
	commitTimer clockwork.Timer
}

// New builds a control service. A nil clock uses the real one.
func New(store snapshot.Store, channel broadcast.Channel, tournaments TournamentSaver, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		store:       store,
		channel:     channel,
		tournaments: tournaments,
		clock:       clock,
	}
}

// Snapshot returns the current shared snapshot.
func (s *Service) Snapshot(ctx context.Context) (*models.GameSnapshot, error) {
	return s.store.Read(ctx)
}

// mutate runs fn against the current snapshot and persists the result.
// Returning the written snapshot lets callers publish or log from it.
func (s *Service) mutate(ctx context.Context, fn func(*models.GameSnapshot) error) (*models.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := fn(snap); err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, snap); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return snap, nil
}

// announce publishes a state-change event. Failures are logged, not
// returned: the channel is best-effort and polling covers the gap.
func (s *Service) announce(ctx context.Context, state models.GameState) {
	if err := s.channel.Publish(ctx, broadcast.StateChange(state)); err != nil {
		log.Warn().Err(err).Str("game_state", string(state)).Msg("state change publish failed")
	}
}

// saveTournament persists the snapshot's tournament if a saver is wired.
func (s *Service) saveTournament(ctx context.Context, t *models.Tournament) {
	if s.tournaments == nil || t == nil {
		return
	}
	if err := s.tournaments.Save(ctx, t); err != nil {
		log.Error().Err(err).Str("tournament_id", t.ID).Msg("tournament save failed")
	}
}

// Transition moves the show to a new display state. Any state may be set at
// any time; the host has full manual override. The active match's own state
// is stamped too so an interrupted match resumes where it left off.
func (s *Service) Transition(ctx context.Context, state models.GameState) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		snap.GameState = state
		if m := snap.Tournament.CurrentMatch(); m != nil {
			m.GameState = state
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.saveTournament(ctx, snap.Tournament)
	s.announce(ctx, state)
	log.Info().Str("game_state", string(state)).Msg("state transition")
	return nil
}

// AttachTournament puts a tournament on the snapshot and loads the team
// identities of its current match.
func (s *Service) AttachTournament(ctx context.Context, t *models.Tournament) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		snap.Tournament = t
		applyMatchTeams(snap)
		return nil
	})
	return err
}

// StartMatch marks a match in progress, resets the per-match scoreboard, and
// loads its round 1 question.
func (s *Service) StartMatch(ctx context.Context, matchID string) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		if snap.Tournament == nil {
			return fmt.Errorf("no tournament attached")
		}
		if err := bracket.StartMatch(snap.Tournament, matchID); err != nil {
			return err
		}
		snap.Team1Score = 0
		snap.Team2Score = 0
		snap.RoundScore = 0
		snap.CurrentRound = models.Round1
		snap.CurrentTeam = models.Team1
		snap.GameWinner = ""
		engine.ResetStrikes(snap)
		applyMatchTeams(snap)
		engine.LoadQuestion(snap, matchQuestion(snap, models.Round1))
		return nil
	})
	if err != nil {
		return err
	}
	s.saveTournament(ctx, snap.Tournament)
	return nil
}

// RevealAnswer flips one board answer face-up without scoring it.
func (s *Service) RevealAnswer(ctx context.Context, index int) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		return engine.RevealAnswer(snap, index)
	})
	return err
}

// AwardToRoundPool adds a revealed answer's points to the round pool.
func (s *Service) AwardToRoundPool(ctx context.Context, index int) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		return engine.AwardToRoundPool(snap, index)
	})
	return err
}

// CommitRoundPool awards the pool to a team after the count-up animation
// window. An empty team commits to whichever side holds the board. The
// commit itself happens on a timer so viewers see the animation run.
func (s *Service) CommitRoundPool(ctx context.Context, team models.Team) error {
	s.mu.Lock()
	snap, err := s.store.Read(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("read snapshot: %w", err)
	}
	if snap.RoundScore == 0 {
		s.mu.Unlock()
		return nil
	}
	target := team
	if target == "" {
		target = snap.CurrentTeam
	}
	snap.ShowRoundSummary = true
	if err := s.store.Write(ctx, snap); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.mu.Unlock()

	s.replaceCommitTimer(s.clock.AfterFunc(commitDelay, func() {
		if _, err := s.mutate(context.Background(), func(snap *models.GameSnapshot) error {
			engine.CommitRoundPool(snap, target)
			snap.ShowRoundSummary = false
			return nil
		}); err != nil {
			log.Error().Err(err).Msg("round pool commit failed")
		}
	}))
	return nil
}

// Strike records a wrong answer and raises the strike overlay, which clears
// itself after a short fixed window.
func (s *Service) Strike(ctx context.Context) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		engine.Strike(snap)
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("strikes", snap.Strikes).Msg("strike")

	s.replaceStrikeTimer(s.clock.AfterFunc(strikeOverlayDuration, func() {
		if _, err := s.mutate(context.Background(), func(snap *models.GameSnapshot) error {
			snap.ShowStrikeOverlay = false
			return nil
		}); err != nil {
			log.Warn().Err(err).Msg("strike overlay clear failed")
		}
	}))
	return nil
}

// ResetStrikes zeroes the strike count, used on turn changes and new
// questions.
func (s *Service) ResetStrikes(ctx context.Context) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		engine.ResetStrikes(snap)
		return nil
	})
	return err
}

// SwitchTeam hands the board to the other side.
func (s *Service) SwitchTeam(ctx context.Context) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		snap.CurrentTeam = snap.CurrentTeam.Other()
		return nil
	})
	return err
}

// PromptPassOrPlay raises the pass-or-play prompt after the face-off and
// moves the show to the pass-or-play display.
func (s *Service) PromptPassOrPlay(ctx context.Context) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		snap.ShowPassOrPlayOverlay = true
		snap.GameState = models.StatePassOrPlay
		return nil
	})
	if err != nil {
		return err
	}
	s.announce(ctx, models.StatePassOrPlay)
	return nil
}

// PassOrPlay applies the face-off winner's choice and moves to game play.
func (s *Service) PassOrPlay(ctx context.Context, choice engine.PassOrPlayChoice) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		engine.PassOrPlay(snap, choice)
		return nil
	})
	if err != nil {
		return err
	}
	s.announce(ctx, models.StateGamePlay)
	return nil
}

// PromptSteal raises the steal overlay for the non-controlling team.
func (s *Service) PromptSteal(ctx context.Context) error {
	_, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		snap.ShowStealOverlay = true
		return nil
	})
	return err
}

// ResolveSteal settles the steal attempt and clears the overlay. This is the
// single authoritative implementation of the steal rule.
func (s *Service) ResolveSteal(ctx context.Context, result engine.StealResult) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		engine.ResolveSteal(snap, result)
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("result", string(result)).
		Int("team1_score", snap.Team1Score).
		Int("team2_score", snap.Team2Score).
		Msg("steal resolved")
	return nil
}

// AdvanceRound moves the match to the next round and loads its question.
// Entering the tiebreaker stamps the cumulative round totals onto the match
// record first; the displayed scores reset to zero but the real totals stay
// retrievable.
func (s *Service) AdvanceRound(ctx context.Context) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		if snap.CurrentRound == models.RoundTiebreaker {
			return nil
		}
		next := models.NextRound(snap.CurrentRound)
		if next == models.RoundTiebreaker {
			if m := snap.Tournament.CurrentMatch(); m != nil {
				s1, s2 := snap.Team1Score, snap.Team2Score
				m.Score1, m.Score2 = &s1, &s2
			}
		}
		engine.AdvanceRound(snap, matchQuestion(snap, next))
		if m := snap.Tournament.CurrentMatch(); m != nil {
			m.CurrentRound = snap.CurrentRound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.saveTournament(ctx, snap.Tournament)
	log.Info().Str("round", string(snap.CurrentRound)).Msg("round advanced")
	return nil
}

// CompleteCurrentMatch records the current scoreboard as the match result,
// advances the bracket, and stamps the winner on the snapshot. A match that
// went to the tiebreaker records the pre-tiebreaker totals plus the
// tiebreaker points, so the full match score survives. Completing the last
// match settles the tournament winner as well.
func (s *Service) CompleteCurrentMatch(ctx context.Context) error {
	snap, err := s.mutate(ctx, func(snap *models.GameSnapshot) error {
		m := snap.Tournament.CurrentMatch()
		if m == nil {
			return fmt.Errorf("no active match")
		}
		result := bracket.Result{Score1: snap.Team1Score, Score2: snap.Team2Score}
		if snap.CurrentRound == models.RoundTiebreaker && m.Score1 != nil && m.Score2 != nil {
			result.Score1 += *m.Score1
			result.Score2 += *m.Score2
		}
		if err := bracket.CompleteMatch(snap.Tournament, m.ID, result); err != nil {
			return err
		}
		snap.GameWinner = m.WinnerID
		if snap.Tournament.Status == models.TournamentCompleted {
			if standings, err := bracket.FinalStandings(snap.Tournament); err == nil && len(standings) > 0 {
				snap.TournamentWinner = standings[0].TeamID
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.saveTournament(ctx, snap.Tournament)
	log.Info().Str("winner", snap.GameWinner).Msg("match completed")
	return nil
}

// Reset wipes the persisted snapshot back to the default idle state. Only an
// explicit host action reaches this.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if err := s.store.Write(ctx, models.DefaultSnapshot()); err != nil {
		return fmt.Errorf("write default snapshot: %w", err)
	}
	s.announce(ctx, models.StateIdle)
	log.Info().Msg("game reset")
	return nil
}

// RunPings publishes the liveness ping on a fixed interval until ctx is
// cancelled. Viewers flip to disconnected when these stop.
func (s *Service) RunPings(ctx context.Context) error {
	ticker := s.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := s.channel.Publish(ctx, broadcast.Ping()); err != nil {
				log.Warn().Err(err).Msg("liveness ping failed")
			}
		}
	}
}

// Close cancels any outstanding overlay or commit timers.
func (s *Service) Close() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.strikeTimer != nil {
		s.strikeTimer.Stop()
		s.strikeTimer = nil
	}
	if s.commitTimer != nil {
		s.commitTimer.Stop()
		s.commitTimer = nil
	}
}

func (s *Service) replaceStrikeTimer(t clockwork.Timer) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.strikeTimer != nil {
		s.strikeTimer.Stop()
	}
	s.strikeTimer = t
}

func (s *Service) replaceCommitTimer(t clockwork.Timer) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.commitTimer != nil {
		s.commitTimer.Stop()
	}
	s.commitTimer = t
}

// matchQuestion pulls the active match's prepared question for a round and
// converts it to the board shape. Missing questions render as "not yet
// configured" rather than erroring.
func matchQuestion(snap *models.GameSnapshot, r models.Round) *models.Question {
	m := snap.Tournament.CurrentMatch()
	if m == nil {
		return nil
	}
	mq := m.QuestionForRound(r)
	if mq == nil {
		return nil
	}
	return &models.Question{
		ID:       mq.ID,
		Text:     mq.Question,
		Answers:  mq.Answers,
		Category: mq.Category,
	}
}

// applyMatchTeams copies the current match's team identities onto the
// snapshot's two display slots, normalized to the canonical config shape.
func applyMatchTeams(snap *models.GameSnapshot) {
	t := snap.Tournament
	m := t.CurrentMatch()
	if m == nil {
		return
	}
	if tc := teamByName(t, m.Team1ID); tc != nil {
		snap.Team1Config = models.NormalizeTeamConfig(*tc, "Team 1", "red", "crown")
	}
	if tc := teamByName(t, m.Team2ID); tc != nil {
		snap.Team2Config = models.NormalizeTeamConfig(*tc, "Team 2", "blue", "star")
	}
}

func teamByName(t *models.Tournament, name string) *models.TeamConfig {
	for i := range t.Teams {
		if t.Teams[i].Name == name {
			return &t.Teams[i]
		}
	}
	return nil
}
