// Package app wires the core components together from a loaded configuration.
// The HTTP server and the CLI share it.
package app

import (
	"context"
	"fmt"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/gateway"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/repository"
	"fitwise/fitness-client/internal/service"
	"fitwise/fitness-client/internal/session"
	"fitwise/fitness-client/internal/storage"
)

// App holds the wired services and the resources that need closing.
type App struct {
	Store    storage.Store
	Gateway  gateway.Gateway
	Sessions *session.Store
	Cache    *cache.Store

	Auth      service.AuthService
	Member    service.MemberService
	Admin     service.AdminService
	DBManager service.DBManagerService
}

// New opens durable storage, restores the last session, loads the local cache
// and builds the services.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a, err := NewWithStore(ctx, cfg, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore is New over an already opened store. The store is not closed on error.
func NewWithStore(ctx context.Context, cfg config.Config, store storage.Store, log logger.Logger) (*App, error) {
	gw := gateway.New(gateway.Config{BaseURL: cfg.Remote.BaseURL, Timeout: cfg.Remote.Timeout}, log)

	checkers, err := session.DefaultCheckers(gw)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewStore(store, session.Config{Secret: cfg.Session.Secret, TTL: cfg.Session.TTL}, checkers, log)
	if err != nil {
		return nil, err
	}

	local, err := cache.Open(ctx, store, log)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	feedback, err := service.LoadFeedbackSnapshot()
	if err != nil {
		return nil, err
	}

	var dbUsers repository.UserRepository = local.Users()
	var dbPlans repository.PlanRepository = local.Plans()
	if cfg.DBManager.Source == config.SourceRemote {
		dbUsers = gateway.NewUserRepository(gw)
		dbPlans = gateway.NewPlanRepository(gw)
	}

	a := &App{
		Store:     store,
		Gateway:   gw,
		Sessions:  sessions,
		Cache:     local,
		Auth:      service.NewAuthService(sessions, gw, log),
		Member:    service.NewMemberService(sessions, gw, log),
		Admin:     service.NewAdminService(gateway.NewUserRepository(gw), gateway.NewPlanRepository(gw), feedback, log),
		DBManager: service.NewDBManagerService(cfg.DBManager.Source, dbUsers, dbPlans, local.Status(), log),
	}
	a.Auth.Restore(ctx)
	return a, nil
}

// Close releases durable storage.
func (a *App) Close() error {
	return a.Store.Close()
}
