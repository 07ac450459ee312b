package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/sorvetesinacio/storefront/pkg/config"
	"github.com/sorvetesinacio/storefront/pkg/logger"
)

// Fixed keys of the persisted collection layout.
const (
	KeyProducts   = "products"
	KeyUsers      = "users"
	KeyMessages   = "messages"
	KeyPromotions = "promotions"
	KeyOrders     = "orders"
	KeySession    = "session"

	cartKeyPrefix = "cart_"
)

// CartKey returns the per-owner cart key.
func CartKey(ownerID string) string {
	return cartKeyPrefix + ownerID
}

// Store is the synchronous key-value surface the domain store persists
// through. Values are JSON documents; a missing key is reported via the
// found flag, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FromConfig selects and bootstraps the backend named by the configuration.
func FromConfig(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return OpenFile(cfg.Storage.Path)
	case config.BackendSQLite:
		return OpenSQLite(cfg.Storage.Path)
	case config.BackendPostgres:
		return OpenPostgres(cfg.Storage.DSN)
	case config.BackendRedis:
		return NewRedis(ctx, cfg.Redis, logg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
