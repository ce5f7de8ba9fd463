// Package printcore is the product configuration and pricing core of the
// print-on-demand checkout. It owns the catalog, the pricing engine, the
// shipping-quote client, and the persisted cart; it has no process entry
// point of its own and is embedded by the surrounding UI layer.
package printcore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fotomarket/printcore/internal/cart"
	"github.com/fotomarket/printcore/internal/catalog"
	"github.com/fotomarket/printcore/internal/config"
	"github.com/fotomarket/printcore/internal/configurator"
	"github.com/fotomarket/printcore/internal/db"
	"github.com/fotomarket/printcore/internal/migrations"
	"github.com/fotomarket/printcore/internal/pricing"
	"github.com/fotomarket/printcore/internal/seed"
	"github.com/fotomarket/printcore/internal/shipping"
)

// Core bundles the long-lived pieces one embedding host needs: the immutable
// catalog, the pricing engine, the rate-service client, and the cart.
type Core struct {
	Catalog *catalog.Catalog
	Engine  *pricing.Engine
	Rates   *shipping.Client
	Cart    *cart.Aggregator

	database *sql.DB
	redisC   *redis.Client
}

// Open brings the core up: opens the database, migrates and seeds it, loads
// the catalog, refreshes the provider list from the backend (best effort),
// and restores the persisted cart. migrationsDir points at the goose SQL
// files, usually "migrations".
func Open(ctx context.Context, cfg config.Config, migrationsDir string) (*Core, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(database, migrationsDir); err != nil {
		database.Close()
		return nil, err
	}
	if _, err := seed.Run(database); err != nil {
		database.Close()
		return nil, err
	}

	cat, err := catalog.Load(database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Provider commissions live on the backend; the seeded list is only the
	// offline fallback.
	httpc := &http.Client{Timeout: 10 * time.Second}
	providers, err := catalog.FetchProviders(ctx, httpc, cfg.RatesAPIURL, cfg.RatesAPIToken)
	if err != nil {
		slog.Warn("provider refresh failed, using stored providers", "error", err)
	} else if refreshed, err := cat.WithProviders(providers); err != nil {
		slog.Warn("backend returned invalid providers, using stored providers", "error", err)
	} else {
		cat = refreshed
	}

	core := &Core{
		Catalog:  cat,
		Engine:   pricing.NewEngine(cat),
		Rates:    shipping.NewClient(cfg.RatesAPIURL, cfg.RatesAPIToken, httpc),
		database: database,
	}

	var store cart.Store
	if cfg.RedisAddr != "" {
		core.redisC = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = cart.NewRedisStore(core.redisC, "default")
	} else {
		store = cart.NewSQLiteStore(database)
	}

	core.Cart = cart.NewAggregator(store, nil)
	if err := core.Cart.Restore(ctx); err != nil {
		database.Close()
		return nil, err
	}

	return core, nil
}

// NewSession returns a Configurator for one photo being configured. Sessions
// share the catalog, engine, rate client, and cart; each holds its own
// selection state.
func (c *Core) NewSession(photoID, photoURL, photoTitle string) *configurator.Controller {
	return configurator.New(c.Catalog, c.Engine, c.Rates, c.Cart, photoID, photoURL, photoTitle)
}

// Close releases the database and, when configured, the Redis connection.
func (c *Core) Close() error {
	if c.redisC != nil {
		_ = c.redisC.Close()
	}
	return c.database.Close()
}
