// Package app wires configuration, storage, and services into the set of
// stores a single command or server run operates on.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/chain"
	"pharmacertlabs/pharmacert/internal/config"
	"pharmacertlabs/pharmacert/internal/kvstore"
	"pharmacertlabs/pharmacert/internal/notify"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/session"

	"go.uber.org/zap"
)

// ErrPermissionDenied is returned by Require when the acting address lacks a
// permission.
var ErrPermissionDenied = errors.New("permission denied")

// Options controls how Open builds an App.
type Options struct {
	// Config overrides the on-disk configuration.
	Config *config.Config

	// Ephemeral keeps every store in memory for the lifetime of the App.
	Ephemeral bool

	Logger  *zap.Logger
	Session session.Store

	// HTTPClient is used for fullnode calls.
	HTTPClient *http.Client
}

// App holds the stores shared by commands.
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Audit         *auditlog.Store
	Notifications *notify.Feed
	Roles         *roles.Manager
	Session       session.Store

	httpClient *http.Client
	closers    []func() error
}

// Open loads configuration and opens the stores it selects.
func Open(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.Default()
	}

	a := &App{Config: cfg, Logger: logger, Session: sess, httpClient: opts.HTTPClient}

	backendName := cfg.StorageBackend()
	if opts.Ephemeral {
		backendName = config.BackendMemory
	}
	backend, err := OpenBackend(backendName, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, backend.Close)

	var repo roles.Repository
	if backendName == config.BackendMemory {
		repo = roles.NewMemoryRepository()
	} else {
		sqlRepo, err := roles.Open()
		if err != nil {
			a.Close()
			return nil, err
		}
		repo = sqlRepo
	}
	a.closers = append(a.closers, repo.Close)

	a.Audit = auditlog.NewStore(backend,
		auditlog.WithMaxRecords(cfg.RecordCap()),
		auditlog.WithLogger(logger.Named("audit")),
	)
	a.Notifications = notify.NewFeed(backend, notify.WithLogger(logger.Named("notify")))
	a.Roles = roles.NewManager(repo)

	logger.Debug("stores opened", zap.String("backend", backendName), zap.Int("audit_records", a.Audit.Len()))
	return a, nil
}

// OpenBackend opens the named key-value backend.
func OpenBackend(name string, cfg *config.Config) (kvstore.Backend, error) {
	switch name {
	case config.BackendSQLite:
		s, err := kvstore.OpenSQLite()
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFile:
		dir, err := kvstore.DefaultFileDir()
		if err != nil {
			return nil, err
		}
		return kvstore.NewFile(dir), nil
	case config.BackendRedis:
		return kvstore.NewRedis(cfg.RedisAddr()), nil
	case config.BackendMemory:
		return kvstore.NewMemory(), nil
	}
	return nil, fmt.Errorf("app: unknown storage backend %q", name)
}

// Close releases every store in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Actor returns the connected address and its role. Without a session the
// actor is unknown.
func (a *App) Actor() auditlog.Actor {
	address, err := a.Session.Address()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			a.Logger.Warn("session lookup failed", zap.Error(err))
		}
		return auditlog.Actor{}
	}
	role, err := a.Roles.RoleOf(address)
	if err != nil {
		a.Logger.Warn("role lookup failed", zap.String("address", address), zap.Error(err))
		return auditlog.Actor{ID: address}
	}
	return auditlog.Actor{ID: address, Role: string(role)}
}

// Require checks that the connected address holds perm. A denial is recorded
// as PERMISSION_DENIED naming attempted, and ErrPermissionDenied is returned.
func (a *App) Require(ctx context.Context, perm roles.Permission, attempted string) (auditlog.Actor, error) {
	actor := a.Actor()
	ok, err := a.Roles.HasPermission(actor.ID, perm)
	if err != nil {
		return actor, err
	}
	if !ok {
		a.Audit.PermissionDenied(ctx, actor, attempted)
		return actor, fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, attempted, perm)
	}
	return actor, nil
}

// Module returns the configured registry module.
func (a *App) Module() chain.Module {
	return chain.Module{Address: a.Config.ModuleAddress(), Name: a.Config.ModuleName()}
}

// Chain returns a fullnode client for the configured node.
func (a *App) Chain(opts ...chain.Option) *chain.Client {
	base := []chain.Option{chain.WithLogger(a.Logger.Named("chain"))}
	if a.httpClient != nil {
		base = append(base, chain.WithHTTPClient(a.httpClient))
	}
	return chain.NewClient(a.Config.NodeURL(), append(base, opts...)...)
}
