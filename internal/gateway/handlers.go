package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/accounts"
	"github.com/showrunr/feud/internal/assets"
	"github.com/showrunr/feud/internal/bracket"
	"github.com/showrunr/feud/internal/engine"
	"github.com/showrunr/feud/internal/models"
	"github.com/showrunr/feud/internal/tournaments"
)

// Every JSON response is an envelope with exactly one of data or error set,
// so clients branch on one shape everywhere.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: v}); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Error: &errorBody{Message: err.Error()}}); encErr != nil {
		log.Error().Err(encErr).Msg("failed to write error response")
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Routes registers every endpoint on the mux.
func (g *Gateway) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", g.handleWebSocket)

	mux.HandleFunc("GET /api/game/state", g.handleGetState)
	mux.HandleFunc("GET /api/game/view", g.handleGetView)
	mux.HandleFunc("POST /api/game/transition", g.handleTransition)
	mux.HandleFunc("POST /api/game/reveal", g.handleReveal)
	mux.HandleFunc("POST /api/game/award", g.handleAward)
	mux.HandleFunc("POST /api/game/commit", g.handleCommit)
	mux.HandleFunc("POST /api/game/strike", g.handleStrike)
	mux.HandleFunc("POST /api/game/strikes/reset", g.handleResetStrikes)
	mux.HandleFunc("POST /api/game/switch-team", g.handleSwitchTeam)
	mux.HandleFunc("POST /api/game/pass-or-play/prompt", g.handlePassOrPlayPrompt)
	mux.HandleFunc("POST /api/game/pass-or-play", g.handlePassOrPlay)
	mux.HandleFunc("POST /api/game/steal/prompt", g.handleStealPrompt)
	mux.HandleFunc("POST /api/game/steal/resolve", g.handleStealResolve)
	mux.HandleFunc("POST /api/game/round/advance", g.handleAdvanceRound)
	mux.HandleFunc("POST /api/game/match/start", g.handleStartMatch)
	mux.HandleFunc("POST /api/game/match/complete", g.handleCompleteMatch)
	mux.HandleFunc("POST /api/game/reset", g.handleReset)

	mux.HandleFunc("POST /api/auth/signup", g.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", g.handleSignIn)

	mux.HandleFunc("POST /api/tournaments", g.handleCreateTournament)
	mux.HandleFunc("GET /api/tournaments", g.handleListTournaments)
	mux.HandleFunc("GET /api/tournaments/{id}", g.handleGetTournament)
	mux.HandleFunc("PUT /api/tournaments/{id}", g.handleUpdateTournament)
	mux.HandleFunc("DELETE /api/tournaments/{id}", g.handleDeleteTournament)
	mux.HandleFunc("POST /api/tournaments/{id}/attach", g.handleAttachTournament)
	mux.HandleFunc("GET /api/tournaments/{id}/standings", g.handleStandings)

	mux.HandleFunc("POST /api/uploads", g.handleUpload)
	mux.Handle("GET "+assets.URLPrefix, http.StripPrefix(assets.URLPrefix,
		http.FileServer(http.Dir(g.assets.Dir()))))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (g *Gateway) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, err := g.control.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, snap)
}

func (g *Gateway) handleGetView(w http.ResponseWriter, r *http.Request) {
	snap, err := g.control.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"view":      models.ResolveView(snap.GameState),
		"gameState": snap.GameState,
		"connected": g.syncer.Liveness().Connected(),
	})
}

func (g *Gateway) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State models.GameState `json:"state"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.respond(w, r, g.control.Transition(r.Context(), req.State))
}

func (g *Gateway) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.respond(w, r, g.control.RevealAnswer(r.Context(), req.Index))
}

func (g *Gateway) handleAward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.respond(w, r, g.control.AwardToRoundPool(r.Context(), req.Index))
}

func (g *Gateway) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team models.Team `json:"team"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.respond(w, r, g.control.CommitRoundPool(r.Context(), req.Team))
}

func (g *Gateway) handleStrike(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.Strike(r.Context()))
}

func (g *Gateway) handleResetStrikes(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.ResetStrikes(r.Context()))
}

func (g *Gateway) handleSwitchTeam(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.SwitchTeam(r.Context()))
}

func (g *Gateway) handlePassOrPlayPrompt(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.PromptPassOrPlay(r.Context()))
}

func (g *Gateway) handlePassOrPlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice engine.PassOrPlayChoice `json:"choice"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Choice != engine.ChoicePass && req.Choice != engine.ChoicePlay {
		writeError(w, http.StatusBadRequest, errors.New("choice must be pass or play"))
		return
	}
	g.respond(w, r, g.control.PassOrPlay(r.Context(), req.Choice))
}

func (g *Gateway) handleStealPrompt(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.PromptSteal(r.Context()))
}

func (g *Gateway) handleStealResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Result engine.StealResult `json:"result"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Result != engine.StealSuccess && req.Result != engine.StealFail {
		writeError(w, http.StatusBadRequest, errors.New("result must be success or fail"))
		return
	}
	g.respond(w, r, g.control.ResolveSteal(r.Context(), req.Result))
}

func (g *Gateway) handleAdvanceRound(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.AdvanceRound(r.Context()))
}

func (g *Gateway) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MatchID string `json:"matchId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g.respond(w, r, g.control.StartMatch(r.Context(), req.MatchID))
}

func (g *Gateway) handleCompleteMatch(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.CompleteCurrentMatch(r.Context()))
}

func (g *Gateway) handleReset(w http.ResponseWriter, r *http.Request) {
	g.respond(w, r, g.control.Reset(r.Context()))
}

// respond finishes a control action by returning the resulting snapshot, so
// the control panel never needs a follow-up read.
func (g *Gateway) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	snap, err := g.control.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, http.StatusOK, snap)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNoQuestion),
		errors.Is(err, engine.ErrNotRevealed),
		errors.Is(err, bracket.ErrMatchCompleted),
		errors.Is(err, bracket.ErrTooFewTeams):
		return http.StatusBadRequest
	case errors.Is(err, bracket.ErrMatchNotFound),
		errors.Is(err, tournaments.ErrNotFound),
		errors.Is(err, accounts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (g *Gateway) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req accounts.SignUpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := g.accounts.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (g *Gateway) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req accounts.SignInRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := g.accounts.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (g *Gateway) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uuid.UUID `json:"userId"`
		tournaments.CreateTournamentRequest
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := g.tournaments.CreateTournament(r.Context(), req.UserID, req.CreateTournamentRequest)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (g *Gateway) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("userId query parameter is required"))
		return
	}
	list, err := g.tournaments.ListTournaments(r.Context(), userID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (g *Gateway) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	t, err := g.tournaments.GetTournament(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (g *Gateway) handleUpdateTournament(w http.ResponseWriter, r *http.Request) {
	var t models.Tournament
	if err := decode(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t.ID = r.PathValue("id")
	updated, err := g.tournaments.UpdateTournament(r.Context(), &t)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (g *Gateway) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	if err := g.tournaments.DeleteTournament(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleAttachTournament puts a stored tournament on the live snapshot so
// the control panel can run it.
func (g *Gateway) handleAttachTournament(w http.ResponseWriter, r *http.Request) {
	t, err := g.tournaments.GetTournament(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	g.respond(w, r, g.control.AttachTournament(r.Context(), t))
}

func (g *Gateway) handleStandings(w http.ResponseWriter, r *http.Request) {
	t, err := g.tournaments.GetTournament(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	standings, err := bracket.FinalStandings(t)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeData(w, http.StatusOK, standings)
}

func (g *Gateway) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	url, err := g.assets.Save(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"url": url})
}
