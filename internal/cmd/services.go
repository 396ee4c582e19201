package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/accounts"
	"github.com/showrunr/feud/internal/assets"
	"github.com/showrunr/feud/internal/broadcast"
	"github.com/showrunr/feud/internal/control"
	"github.com/showrunr/feud/internal/gateway"
	"github.com/showrunr/feud/internal/snapshot"
	"github.com/showrunr/feud/internal/tournaments"
	"github.com/showrunr/feud/internal/viewsync"
)

// Services holds every wired domain service.
type Services struct {
	Store       snapshot.Store
	Channel     broadcast.Channel
	Control     *control.Service
	Accounts    *accounts.App
	Tournaments *tournaments.App
	Assets      *assets.Store
	Gateway     *gateway.Gateway
}

func setupServices(ctx context.Context, cfg *Config, db *sql.DB) (*Services, error) {
	store, err := snapshot.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect snapshot store: %w", err)
	}

	// The channel is the fast path only; if NATS is down the show still
	// runs on polling, so fall back instead of failing startup.
	var channel broadcast.Channel
	natsCfg := broadcast.DefaultNATSConfig()
	natsCfg.URL = cfg.NATS.URL
	natsChannel, err := broadcast.NewNATSChannel(natsCfg)
	if err != nil {
		log.Warn().Err(err).Msg("notification channel unavailable, running on polling only")
		channel = broadcast.NewMemoryChannel()
	} else {
		channel = natsChannel
	}

	accountsApp := accounts.NewApp(accounts.NewRepository(db))
	tournamentsApp := tournaments.NewApp(tournaments.NewRepository(db))

	assetStore, err := assets.NewStore(cfg.Server.AssetDir)
	if err != nil {
		return nil, err
	}

	ctrl := control.New(store, channel, tournamentsApp, nil)

	gw := gateway.New(ctrl, accountsApp, tournamentsApp, assetStore, viewsync.Config{
		Store:        store,
		Channel:      channel,
		PollInterval: cfg.pollInterval(),
	})

	return &Services{
		Store:       store,
		Channel:     channel,
		Control:     ctrl,
		Accounts:    accountsApp,
		Tournaments: tournamentsApp,
		Assets:      assetStore,
		Gateway:     gw,
	}, nil
}
