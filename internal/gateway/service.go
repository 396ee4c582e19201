// Package gateway exposes the show over HTTP: a WebSocket feed that pushes
// every snapshot change to connected viewer pages, and a JSON API for the
// control panel and the tournament editor.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/accounts"
	"github.com/showrunr/feud/internal/assets"
	"github.com/showrunr/feud/internal/control"
	"github.com/showrunr/feud/internal/models"
	"github.com/showrunr/feud/internal/tournaments"
	"github.com/showrunr/feud/internal/viewsync"
)

// Gateway ties the domain services to HTTP and WebSocket transport.
type Gateway struct {
	control     *control.Service
	accounts    *accounts.App
	tournaments *tournaments.App
	assets      *assets.Store
	connections *ConnectionManager
	syncer      *viewsync.Syncer
}

// New builds a gateway. The syncer feeds the connection manager: one
// server-side subscription fans out to every WebSocket viewer.
func New(
	ctrl *control.Service,
	accountsApp *accounts.App,
	tournamentsApp *tournaments.App,
	assetStore *assets.Store,
	syncCfg viewsync.Config,
) *Gateway {
	g := &Gateway{
		control:     ctrl,
		accounts:    accountsApp,
		tournaments: tournamentsApp,
		assets:      assetStore,
		connections: NewConnectionManager(DefaultConnectionConfig()),
	}
	g.syncer = viewsync.New(syncCfg, g.pushUpdate)
	return g
}

// Run starts the broadcast pump and the state syncer, blocking until ctx is
// cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	go g.connections.Start(ctx)
	return g.syncer.Run(ctx)
}

// pushUpdate marshals a deduplicated state update once and fans it out.
func (g *Gateway) pushUpdate(update viewsync.Update) {
	data, err := json.Marshal(map[string]any{
		"snapshot": update.Snapshot,
		"view":     update.View,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal viewer update")
		return
	}
	g.connections.Broadcast(data)
}

// handleWebSocket upgrades a viewer page and immediately sends it the
// current state so it renders without waiting for the next change.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.connections.UpgradeConnection(w, r, r.URL.Query().Get("page"))
	if err != nil {
		return
	}

	snap, err := g.control.Snapshot(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("initial snapshot read failed")
		return
	}
	data, err := json.Marshal(map[string]any{
		"snapshot": snap,
		"view":     models.ResolveView(snap.GameState),
	})
	if err != nil {
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}
