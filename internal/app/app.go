// Package app wires configuration into the stores, services and engines
// shared by the api and admin processes.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"geo-region-api/internal/core/auth"
	"geo-region-api/internal/core/cache"
	"geo-region-api/internal/core/config"
	"geo-region-api/internal/core/database"
	"geo-region-api/internal/geocode"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/repo"
	"geo-region-api/internal/service"
	"geo-region-api/internal/transport/http/handler"
	"geo-region-api/internal/transport/http/router"
	"geo-region-api/internal/txn"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache
	JWT   *auth.JWTer

	Users   *service.UserService
	Regions *service.RegionService
	Admin   *service.AdminService
}

// New opens the database, migrates when configured, and builds services.
func New(cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, l); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return Wire(cfg, l, db), nil
}

// Wire builds the service graph on an open database.
func Wire(cfg *config.Config, l *zap.Logger, db *gorm.DB) *App {
	c := cache.New(cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.CacheTTL(),
	}, l.Named("cache"))

	geo := geocode.New(geocode.Config{
		ForwardURL: cfg.Geocoder.ForwardURL,
		ReverseURL: cfg.Geocoder.ReverseURL,
		UserAgent:  cfg.Geocoder.UserAgent,
		Email:      cfg.Geocoder.Email,
		Timeout:    cfg.GeocoderTimeout(),
	}, &http.Client{Timeout: cfg.GeocoderTimeout()}, l.Named("geocode"))

	scope := txn.NewScope(txn.NewGormBeginner(db), l.Named("txn"), txn.Options{
		CommitLogicalFailures: cfg.DB.CommitLogicalFailures,
	})

	users := repo.NewUserRepo(db)
	regions := repo.NewRegionRepo(db)
	builder := geoquery.Builder{Dialect: database.Dialect(db), Column: "regions.geometry"}
	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL())

	return &App{
		Cfg:     cfg,
		Log:     l,
		DB:      db,
		Cache:   c,
		JWT:     jwter,
		Users:   service.NewUserService(users, geo, scope, c, l.Named("users")),
		Regions: service.NewRegionService(regions, users, builder, scope, l.Named("regions")),
		Admin: service.NewAdminService(users, regions, service.AdminCredentials{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
		}, jwter, l.Named("admin")),
	}
}

// Checks are the dependencies reported by /health.
func (a *App) Checks() map[string]router.Check {
	checks := map[string]router.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Cache != nil {
		checks["redis"] = a.Cache.Ping
	}
	return checks
}

func (a *App) limits(perIP bool) router.Limits {
	return router.Limits{
		RPS:          a.Cfg.Limits.RPS,
		Burst:        a.Cfg.Limits.Burst,
		PerIP:        perIP,
		Concurrency:  a.Cfg.Limits.Concurrency,
		MaxBodyBytes: a.Cfg.Limits.MaxBodyBytes,
		Timeout:      a.Cfg.RequestTimeout(),
	}
}

func (a *App) APIEngine() http.Handler {
	reg := router.NewRegistry(
		handler.NewUserHandler(a.Users),
		handler.NewRegionHandler(a.Regions),
	)
	return router.NewAPIEngine(a.Log, a.limits(true), a.Checks(), reg)
}

func (a *App) AdminEngine() http.Handler {
	reg := router.NewRegistry(handler.NewAdminHandler(a.Admin))
	return router.NewAdminEngine(a.Log, a.limits(false), a.Checks(), a.JWT, reg)
}

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Log.Warn("close cache", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
