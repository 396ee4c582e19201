package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/showrunr/feud/internal/assets"
	"github.com/showrunr/feud/internal/broadcast"
	"github.com/showrunr/feud/internal/control"
	"github.com/showrunr/feud/internal/models"
	"github.com/showrunr/feud/internal/snapshot"
	"github.com/showrunr/feud/internal/viewsync"
)

func testGateway(t *testing.T) (*Gateway, *http.ServeMux) {
	t.Helper()
	store := snapshot.NewMemoryStore()
	channel := broadcast.NewMemoryChannel()
	ctrl := control.New(store, channel, nil, clockwork.NewFakeClock())
	t.Cleanup(ctrl.Close)

	assetStore, err := assets.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("assets.NewStore: %v", err)
	}

	g := New(ctrl, nil, nil, assetStore, viewsync.Config{
		Store:   store,
		Channel: channel,
		Clock:   clockwork.NewFakeClock(),
	})
	mux := http.NewServeMux()
	g.Routes(mux)
	return g, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid envelope: %v: %s", method, path, err, rec.Body.String())
	}
	return rec, env
}

func TestGetStateReturnsDataEnvelope(t *testing.T) {
	_, mux := testGateway(t)

	rec, env := doJSON(t, mux, http.MethodGet, "/api/game/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Error != nil {
		t.Fatalf("error set: %s", env.Error.Message)
	}
	if env.Data == nil {
		t.Fatal("data not set")
	}
}

func TestTransitionPersistsAndReturnsSnapshot(t *testing.T) {
	_, mux := testGateway(t)

	rec, env := doJSON(t, mux, http.MethodPost, "/api/game/transition", `{"state":"game-play"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data, _ := json.Marshal(env.Data)
	var snap models.GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("data is not a snapshot: %v", err)
	}
	if snap.GameState != models.StateGamePlay {
		t.Errorf("GameState = %s, want game-play", snap.GameState)
	}
}

func TestViewFallsBackToIdleForUnknownState(t *testing.T) {
	_, mux := testGateway(t)

	// Persist a garbage state through the transition endpoint; the host can
	// force any state, but viewers must still get a valid page.
	doJSON(t, mux, http.MethodPost, "/api/game/transition", `{"state":"garbage"}`)

	_, env := doJSON(t, mux, http.MethodGet, "/api/game/view", "")
	view := env.Data.(map[string]any)["view"]
	if view != "/states/idle" {
		t.Errorf("view = %v, want /states/idle", view)
	}
}

func TestBadRequestReturnsErrorEnvelope(t *testing.T) {
	_, mux := testGateway(t)

	tests := []struct {
		path string
		body string
	}{
		{"/api/game/transition", `{not json`},
		{"/api/game/pass-or-play", `{"choice":"maybe"}`},
		{"/api/game/steal/resolve", `{"result":"shrug"}`},
	}
	for _, tt := range tests {
		rec, env := doJSON(t, mux, http.MethodPost, tt.path, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.path, rec.Code)
		}
		if env.Error == nil || env.Error.Message == "" {
			t.Errorf("%s: error envelope not set", tt.path)
		}
		if env.Data != nil {
			t.Errorf("%s: data set alongside error", tt.path)
		}
	}
}

func TestAwardBeforeRevealIsRejected(t *testing.T) {
	_, mux := testGateway(t)

	rec, env := doJSON(t, mux, http.MethodPost, "/api/game/award", `{"index":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil {
		t.Fatal("error envelope not set")
	}
}

func TestHealth(t *testing.T) {
	_, mux := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}
