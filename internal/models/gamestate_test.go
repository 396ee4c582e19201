package models

import "testing"

func TestResolveView(t *testing.T) {
	for _, state := range AllGameStates {
		want := "/states/" + string(state)
		if got := ResolveView(state); got != want {
			t.Errorf("ResolveView(%s) = %s, want %s", state, got, want)
		}
	}
}

func TestResolveViewFallsBackToIdle(t *testing.T) {
	for _, state := range []GameState{"", "garbage", "GAME-PLAY", "idle "} {
		if got := ResolveView(state); got != "/states/idle" {
			t.Errorf("ResolveView(%q) = %s, want /states/idle", state, got)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known(StateGamePlay) {
		t.Error("Known(game-play) = false")
	}
	if Known("not-a-state") {
		t.Error("Known(not-a-state) = true")
	}
}

func TestNextRound(t *testing.T) {
	tests := []struct{ in, want Round }{
		{Round1, Round2},
		{Round2, Round3},
		{Round3, Round4},
		{Round4, RoundTiebreaker},
		{RoundTiebreaker, RoundTiebreaker},
	}
	for _, tt := range tests {
		if got := NextRound(tt.in); got != tt.want {
			t.Errorf("NextRound(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTeamConfig(t *testing.T) {
	// Legacy color field fills PrimaryColor.
	tc := NormalizeTeamConfig(TeamConfig{Name: "Hawks", Color: "green"}, "Team 1", "red", "crown")
	if tc.PrimaryColor != "green" {
		t.Errorf("PrimaryColor = %s, want green", tc.PrimaryColor)
	}

	// Empty config takes the fallbacks, and the legacy field mirrors back.
	tc = NormalizeTeamConfig(TeamConfig{}, "Team 2", "blue", "star")
	if tc.Name != "Team 2" || tc.PrimaryColor != "blue" || tc.Color != "blue" || tc.Icon != "star" {
		t.Errorf("fallbacks not applied: %+v", tc)
	}
}

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()
	if snap.GameState != StateIdle {
		t.Errorf("GameState = %s, want idle", snap.GameState)
	}
	if snap.CurrentRound != Round1 || snap.CurrentTeam != Team1 {
		t.Errorf("round=%s team=%s, want 1/team1", snap.CurrentRound, snap.CurrentTeam)
	}
	if snap.Team1Config.Name != "Team 1" || snap.Team2Config.Name != "Team 2" {
		t.Errorf("team names = %s/%s", snap.Team1Config.Name, snap.Team2Config.Name)
	}
}
