// Package storefront assembles the domain services of the Sorvetes Inácio
// shop into one in-process application. Presentation code builds an App and
// calls its services directly; there is no network surface.
package storefront

import (
	"context"

	"github.com/sorvetesinacio/storefront/internal/analytics"
	"github.com/sorvetesinacio/storefront/internal/auth"
	"github.com/sorvetesinacio/storefront/internal/cart"
	"github.com/sorvetesinacio/storefront/internal/checkout"
	"github.com/sorvetesinacio/storefront/internal/messages"
	"github.com/sorvetesinacio/storefront/internal/orders"
	"github.com/sorvetesinacio/storefront/internal/products"
	"github.com/sorvetesinacio/storefront/internal/promotions"
	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/config"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/logger"
)

// App is the wired application: one store, one service per concern.
type App struct {
	Store      *store.Store
	Auth       auth.Service
	Products   products.Service
	Cart       cart.Service
	Checkout   checkout.Service
	Orders     orders.Service
	Promotions promotions.Service
	Messages   messages.Service
	Analytics  analytics.Service

	logg *logger.Logger
}

// New loads configuration from the environment and assembles the app.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig assembles the app around an explicit configuration: opens the
// configured storage backend, initializes the store (seeding on first run)
// and wires every service.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backend, err := kv.FromConfig(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	st, err := store.New(store.Params{
		KV:          backend,
		Logger:      logg,
		DisableSeed: cfg.Seed.Disable,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	if err := st.Initialize(ctx); err != nil {
		backend.Close()
		return nil, err
	}

	app := &App{Store: st, logg: logg}
	if app.Auth, err = auth.NewService(auth.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Products, err = products.NewService(products.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Cart, err = cart.NewService(cart.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Checkout, err = checkout.NewService(checkout.ServiceParams{Store: st, Cart: app.Cart, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Orders, err = orders.NewService(orders.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Promotions, err = promotions.NewService(promotions.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Messages, err = messages.NewService(messages.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	if app.Analytics, err = analytics.NewService(analytics.ServiceParams{Store: st, Logger: logg}); err != nil {
		return nil, err
	}
	return app, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Store.Close()
}
