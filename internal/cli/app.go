package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/api"
	"github.com/jengzang/meteorites-backend-go/internal/catalog"
	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/database"
	"github.com/jengzang/meteorites-backend-go/internal/dataset"
	"github.com/jengzang/meteorites-backend-go/internal/ratelimit"
	"github.com/jengzang/meteorites-backend-go/internal/service"
)

const purgeInterval = time.Minute

// App is the assembled HTTP application
type App struct {
	Router  *gin.Engine
	Catalog *catalog.Catalog
	db      *sql.DB
}

// NewApp loads the dataset and wires the router. A dataset that cannot be
// loaded leaves the app running in the not-ready state.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	src, err := dataset.NewSource(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := src.Load(ctx)
	if err != nil {
		log.Error("failed to load dataset", "source", src.Describe(), "error", err)
		raw = nil
	}

	cat, err := catalog.Build(ctx, raw)
	if err != nil {
		return nil, err
	}
	logCatalog(log, src.Describe(), cat, time.Since(start))

	app := &App{Catalog: cat}

	store, err := app.newStore(ctx, cfg.RateLimit, log)
	if err != nil {
		return nil, err
	}
	limiter := ratelimit.NewLimiter(store, ratelimit.NewSHA256Hasher(cfg.HashKey), cfg.Limits.RateLimitInterval())

	app.Router = api.SetupRouter(api.Deps{
		Config:  cfg,
		Service: service.NewMeteoriteService(cat, cfg, log),
		Limiter: limiter,
		Log:     log,
	})
	return app, nil
}

// Close releases the rate-limit database, if any
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) newStore(ctx context.Context, cfg config.RateLimitConfig, log *slog.Logger) (ratelimit.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return ratelimit.NewMemoryStore(purgeInterval), nil
	case "sqlite":
		db, err := database.Open(ctx, database.Config{Path: cfg.SQLitePath})
		if err != nil {
			return nil, err
		}
		store, err := ratelimit.NewSQLStore(ctx, db)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		a.db = db
		go purgeLoop(ctx, store, log)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
}

func purgeLoop(ctx context.Context, store *ratelimit.SQLStore, log *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				log.Warn("failed to purge rate limit keys", "error", err)
				continue
			}
			log.Debug("purged rate limit keys", "count", n)
		}
	}
}

func logCatalog(log *slog.Logger, source string, cat *catalog.Catalog, took time.Duration) {
	for _, d := range cat.Diagnostics() {
		log.Debug("incomplete record", "key", d.SourceKey, "reason", d.Reason)
	}
	if n := len(cat.Diagnostics()); n > 0 {
		log.Warn("dataset contains incomplete records", "count", n)
	}

	if !cat.Ready() {
		log.Error("data cache is not ready or empty", "source", source)
		return
	}

	byID, byName := cat.IndexSizes()
	log.Info("dataset loaded",
		"source", source,
		"meteorites", cat.Len(),
		"by_id", byID,
		"by_name", byName,
		"took", took,
	)
}
