package client

import (
	"context"
	"fmt"

	"github.com/biotaxa/taxoclient/internal/config"
	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/netstatus"
	"github.com/biotaxa/taxoclient/internal/objstore"
	"github.com/biotaxa/taxoclient/internal/remote"
	"github.com/biotaxa/taxoclient/internal/service"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/internal/workers"
)

// App owns every long-lived component of the client process.
type App struct {
	cfg        *config.StructuredConfig
	logger     *logger.Logger
	storages   *store.Storages
	remote     *remote.HTTPRemote
	objects    objstore.Store
	observer   *netstatus.Observer
	services   *service.Services
	background *workers.Workers
}

// NewApp builds the full dependency graph from configuration. flagCfg holds
// values collected from command-line flags; env and JSON sources are merged
// by the config layer.
func NewApp(flagCfg *config.StructuredConfig) (*App, error) {
	cfg, err := config.GetConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewLogger("taxoclient")

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("init local store: %w", err)
	}

	remoteClient, err := remote.NewHTTPRemote(cfg.Remote, log)
	if err != nil {
		return nil, fmt.Errorf("init remote adapter: %w", err)
	}

	objects, err := objstore.NewStore(cfg.ObjectStore, log)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	observer := netstatus.NewObserver(remoteClient, cfg.Workers.ProbeInterval, log)
	services := service.NewServices(storages, remoteClient, remoteClient, objects, observer, log)

	background := workers.New(
		workers.WorkerFunc{Start: observer.Start, Shutdown: observer.Stop},
		workers.WorkerFunc{
			Start:    func(ctx context.Context) { services.SyncJob.Start(ctx, cfg.Workers.SyncInterval) },
			Shutdown: services.SyncJob.Stop,
		},
	)

	return &App{
		cfg:        cfg,
		logger:     log,
		storages:   storages,
		remote:     remoteClient,
		objects:    objects,
		observer:   observer,
		services:   services,
		background: background,
	}, nil
}

// Start restores the cached session if one exists and launches the
// background workers: the connectivity observer first, then the sync job
// that reacts to its transitions.
func (a *App) Start(ctx context.Context) {
	if _, err := a.services.Auth.Session(ctx); err != nil {
		a.logger.Debug().Err(err).Msg("no session restored")
	}
	a.background.Run(ctx)
}

// Connect probes the backend once and records the result so one-shot
// commands start from an accurate reachability state instead of waiting for
// the observer's first scheduled probe.
func (a *App) Connect(ctx context.Context) bool {
	err := a.remote.Ping(ctx)
	a.observer.SetOnline(err == nil)
	return err == nil
}

// Stop shuts the background workers down and closes the local store.
func (a *App) Stop() {
	a.background.Stop()
	if err := a.storages.Close(); err != nil {
		a.logger.Error().Err(err).Msg("close local store")
	}
}

// Services exposes the business layer to the CLI commands.
func (a *App) Services() *service.Services {
	return a.services
}

// Config returns the resolved configuration.
func (a *App) Config() *config.StructuredConfig {
	return a.cfg
}

// Observer returns the network status observer.
func (a *App) Observer() *netstatus.Observer {
	return a.observer
}

// Objects returns the object-storage adapter.
func (a *App) Objects() objstore.Store {
	return a.objects
}
