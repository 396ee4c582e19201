package models

// Round identifies the current round of a match. Rounds 1-4 are numbered;
// the tiebreaker is its own value because its scoring rules differ.
type Round string

const (
	Round1          Round = "1"
	Round2          Round = "2"
	Round3          Round = "3"
	Round4          Round = "4"
	RoundTiebreaker Round = "tiebreaker"
)

// RoundOrder lists rounds in play order.
var RoundOrder = []Round{Round1, Round2, Round3, Round4, RoundTiebreaker}

// NextRound returns the round that follows r. The tiebreaker is the last
// round and returns itself.
func NextRound(r Round) Round {
	switch r {
	case Round1:
		return Round2
	case Round2:
		return Round3
	case Round3:
		return Round4
	case Round4:
		return RoundTiebreaker
	default:
		return RoundTiebreaker
	}
}

// Team identifies which side currently holds the board.
type Team string

const (
	Team1 Team = "team1"
	Team2 Team = "team2"
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// TeamConfig is the canonical presentation identity of a team. Earlier
// revisions of the display pages disagreed on color field names; every
// producer and consumer goes through NormalizeTeamConfig instead of guessing.
type TeamConfig struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Icon           string `json:"icon"`
	IconURL        string `json:"iconUrl,omitempty"`
	Logo           string `json:"logo,omitempty"`
	Motto          string `json:"motto,omitempty"`

	// Legacy single-color field still emitted by old clients.
	Color string `json:"color,omitempty"`
}

// NormalizeTeamConfig fills defaults and reconciles the legacy color field so
// consumers only ever look at PrimaryColor/SecondaryColor.
func NormalizeTeamConfig(tc TeamConfig, fallbackName, fallbackColor, fallbackIcon string) TeamConfig {
	if tc.Name == "" {
		tc.Name = fallbackName
	}
	if tc.PrimaryColor == "" {
		if tc.Color != "" {
			tc.PrimaryColor = tc.Color
		} else {
			tc.PrimaryColor = fallbackColor
		}
	}
	if tc.Color == "" {
		tc.Color = tc.PrimaryColor
	}
	if tc.Icon == "" {
		tc.Icon = fallbackIcon
	}
	return tc
}

// Answer is one survey answer on the board.
type Answer struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is the survey question currently on the board.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"question"`
	Answers  []Answer `json:"answers"`
	Category string   `json:"category,omitempty"`
}

// GameSnapshot is the single shared source of truth for everything the
// control panel and every viewer page can observe. It is written only by the
// control service and read by any number of viewers; the whole record is
// serialized as one value so readers never see a half-written state.
type GameSnapshot struct {
	GameState       GameState  `json:"gameState"`
	CurrentRound    Round      `json:"currentRound"`
	Team1Score      int        `json:"team1Score"`
	Team2Score      int        `json:"team2Score"`
	RoundScore      int        `json:"roundScore"`
	Strikes         int        `json:"strikes"`
	CurrentTeam     Team       `json:"currentTeam"`
	RevealedAnswers []bool      `json:"revealedAnswers"`
	AwardedAnswers  []bool      `json:"awardedAnswers"`
	Team1Config     TeamConfig  `json:"team1Config"`
	Team2Config     TeamConfig  `json:"team2Config"`
	CurrentQuestion *Question   `json:"currentQuestion,omitempty"`
	Tournament      *Tournament `json:"tournament,omitempty"`

	// Ephemeral overlay flags. Fire-and-forget display triggers; viewers read
	// them once and the control service clears them on a short timer.
	ShowStrikeOverlay     bool `json:"showStrikeOverlay"`
	ShowPassOrPlayOverlay bool `json:"showPassOrPlayOverlay"`
	ShowStealOverlay      bool `json:"showStealOverlay"`
	ShowRoundSummary      bool `json:"showRoundSummary"`
	AllAnswersRevealed    bool `json:"allAnswersRevealed"`

	GameWinner       string `json:"gameWinner,omitempty"`
	TournamentWinner string `json:"tournamentWinner,omitempty"`

	// Revision increments on every write so readers can cheaply detect change.
	Revision uint64 `json:"revision"`
}

// DefaultSnapshot is the state a fresh control panel starts from when nothing
// has been persisted yet.
func DefaultSnapshot() *GameSnapshot {
	return &GameSnapshot{
		GameState:    StateIdle,
		CurrentRound: Round1,
		CurrentTeam:  Team1,
		Team1Config: TeamConfig{
			Name:         "Team 1",
			PrimaryColor: "red",
			Color:        "red",
			Icon:         "crown",
			Motto:        "Champions in the making!",
		},
		Team2Config: TeamConfig{
			Name:         "Team 2",
			PrimaryColor: "blue",
			Color:        "blue",
			Icon:         "star",
			Motto:        "Ready to dominate!",
		},
	}
}

// TeamScore returns the cumulative score for the given side.
func (s *GameSnapshot) TeamScore(team Team) int {
	if team == Team1 {
		return s.Team1Score
	}
	return s.Team2Score
}

// TeamName returns the display name for the given side.
func (s *GameSnapshot) TeamName(team Team) string {
	if team == Team1 {
		return s.Team1Config.Name
	}
	return s.Team2Config.Name
}
