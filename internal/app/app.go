// Package app wires the client core together.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/config"
	"github.com/dtroode/coined/internal/credstore/file"
	"github.com/dtroode/coined/internal/credstore/postgres"
	"github.com/dtroode/coined/internal/gateway"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/notify"
	"github.com/dtroode/coined/internal/report"
	"github.com/dtroode/coined/internal/service"
	storage "github.com/dtroode/coined/internal/storage/minio"
	"github.com/dtroode/coined/internal/token"
)

// StorageFactory opens the report storage.
type StorageFactory func(ctx context.Context, cfg config.Storage) (model.Storage, error)

func openMinio(ctx context.Context, cfg config.Storage) (model.Storage, error) {
	c, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// App holds the wired client core.
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Store      *cache.Store
	Notices    *notify.Channel
	Loader     *service.Loader
	Session    *service.Session
	Reconciler *service.Reconciler

	openStorage StorageFactory
	exporterMu  sync.Mutex
	exporter    *report.Exporter

	closers []func() error
}

// sessionTokens lets the transport read the credential of a Session that
// is created after the connection.
type sessionTokens struct {
	session *service.Session
}

func (t *sessionTokens) Token() string {
	if t.session == nil {
		return ""
	}
	return t.session.Token()
}

// New connects to the gateway and the configured credential backend.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	tokens := &sessionTokens{}

	conn, err := gateway.Dial(cfg.Gateway, tokens, log.Named("gateway"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway: %w", err)
	}
	closers := []func() error{conn.Close}

	creds, closeCreds, err := openCredentials(ctx, cfg.Credentials)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if closeCreds != nil {
		closers = append(closers, closeCreds)
	}

	a := Assemble(cfg, log, gateway.NewClient(conn, log.Named("gateway")), creds)
	a.closers = append(a.closers, closers...)
	tokens.session = a.Session

	log.Debug("App: initialized",
		"gateway", cfg.Gateway.Address,
		"credentials", cfg.Credentials.Backend)

	return a, nil
}

// Assemble builds the core on top of an existing gateway and credential store.
func Assemble(cfg *config.Config, log *logger.Logger, gw model.Gateway, creds model.CredentialStore) *App {
	store := cache.New()
	notices := notify.New(cfg.Notify.TTL)

	loader := service.NewLoader(gw, store, log.Named("loader"))
	session := service.NewSession(gw, creds, token.NewInspector(), store, loader, log.Named("session"))
	reconciler := service.NewReconciler(gw, store, session, loader, notices, log.Named("reconciler"))

	return &App{
		Config:      cfg,
		Logger:      log,
		Store:       store,
		Notices:     notices,
		Loader:      loader,
		Session:     session,
		Reconciler:  reconciler,
		openStorage: openMinio,
		closers:     []func() error{func() error { notices.Close(); return nil }},
	}
}

// WithStorage replaces the report storage factory.
func (a *App) WithStorage(f StorageFactory) *App {
	a.openStorage = f
	return a
}

// Reports returns the report exporter, connecting to storage on first use.
func (a *App) Reports(ctx context.Context) (*report.Exporter, error) {
	a.exporterMu.Lock()
	defer a.exporterMu.Unlock()

	if a.exporter != nil {
		return a.exporter, nil
	}

	st, err := a.openStorage(ctx, a.Config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open report storage: %w", err)
	}
	a.exporter = report.NewExporter(a.Store, st, a.Logger.Named("report"))
	return a.exporter, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func openCredentials(ctx context.Context, cfg config.Credentials) (model.CredentialStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open credential database: %w", err)
		}
		return postgres.NewCredentialRepository(conn.DB, cfg.Name), conn.Close, nil
	default:
		return file.NewStore(cfg.FileDir, cfg.Name), nil, nil
	}
}
