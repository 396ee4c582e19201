package models

// GameState names one of the fixed display states the show moves through.
// Transitions are not guarded: a live host needs full manual override, so any
// state may be set at any time from the control surface.
type GameState string

const (
	StateIdle             GameState = "idle"
	StateTournamentStart  GameState = "tournament-start"
	StateBracketShow      GameState = "bracket-show"
	StateTeamVs           GameState = "team-vs"
	StateRoundStart       GameState = "round-start"
	StateGamePlay         GameState = "game-play"
	StatePassOrPlay       GameState = "pass-or-play"
	StateRoundEndReveal   GameState = "round-end-reveal"
	StatePostRoundScoring GameState = "post-round-scoring"
	StateMatchWinner      GameState = "match-winner"
	StateBracketUpdate    GameState = "bracket-update"
	StateTournamentWinner GameState = "tournament-winner"
	StateGrandWinner      GameState = "grand-winner"
)

// AllGameStates lists every known state in show order.
var AllGameStates = []GameState{
	StateIdle,
	StateTournamentStart,
	StateBracketShow,
	StateTeamVs,
	StateRoundStart,
	StateGamePlay,
	StatePassOrPlay,
	StateRoundEndReveal,
	StatePostRoundScoring,
	StateMatchWinner,
	StateBracketUpdate,
	StateTournamentWinner,
	StateGrandWinner,
}

// stateViews maps each state to the viewer page that renders it.
var stateViews = map[GameState]string{
	StateIdle:             "/states/idle",
	StateTournamentStart:  "/states/tournament-start",
	StateBracketShow:      "/states/bracket-show",
	StateTeamVs:           "/states/team-vs",
	StateRoundStart:       "/states/round-start",
	StateGamePlay:         "/states/game-play",
	StatePassOrPlay:       "/states/pass-or-play",
	StateRoundEndReveal:   "/states/round-end-reveal",
	StatePostRoundScoring: "/states/post-round-scoring",
	StateMatchWinner:      "/states/match-winner",
	StateBracketUpdate:    "/states/bracket-update",
	StateTournamentWinner: "/states/tournament-winner",
	StateGrandWinner:      "/states/grand-winner",
}

var stateNames = map[GameState]string{
	StateIdle:             "Idle Screen",
	StateTournamentStart:  "Tournament Start",
	StateBracketShow:      "Bracket Display",
	StateTeamVs:           "Team Face-off",
	StateRoundStart:       "Round Start",
	StateGamePlay:         "Game Play",
	StatePassOrPlay:       "Pass or Play",
	StateRoundEndReveal:   "Round End Reveal",
	StatePostRoundScoring: "Post Round Scoring",
	StateMatchWinner:      "Match Winner",
	StateBracketUpdate:    "Bracket Update",
	StateTournamentWinner: "Tournament Winner",
	StateGrandWinner:      "Grand Winner",
}

// ResolveView returns the viewer page for a state. Unrecognized states fall
// back to the idle view so a viewer never crashes on stale or garbage input.
func ResolveView(state GameState) string {
	if view, ok := stateViews[state]; ok {
		return view
	}
	return stateViews[StateIdle]
}

// DisplayName returns the human-readable name shown on the control panel.
func DisplayName(state GameState) string {
	if name, ok := stateNames[state]; ok {
		return name
	}
	return stateNames[StateIdle]
}

// Known reports whether state is one of the fixed enum values.
func Known(state GameState) bool {
	_, ok := stateViews[state]
	return ok
}
