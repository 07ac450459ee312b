package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// Store is the single source of truth for every persisted collection and the
// session slot. Collections are mirrored in memory, refreshed from the
// key-value backend on Initialize, and written back in full on every
// mutation, so state is durable once a call returns. Carts are read and
// written per owner key and are not mirrored.
type Store struct {
	kv       kv.Store
	logg     *logger.Logger
	now      func() time.Time
	seedless bool

	mu         sync.Mutex
	users      []models.User
	products   []models.Product
	promotions []models.Promotion
	orders     []models.Order
	messages   []models.Message
	session    *models.User
}

// Params groups dependencies for the domain store.
type Params struct {
	KV          kv.Store
	Logger      *logger.Logger
	Now         func() time.Time
	DisableSeed bool
}

// New builds a domain store around the provided key-value backend.
func New(params Params) (*Store, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "store"})
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		kv:       params.KV,
		logg:     logg,
		now:      now,
		seedless: params.DisableSeed,
	}, nil
}

// Initialize seeds missing collections and loads every mirror. It is
// idempotent: repeated calls never duplicate seed data or reset anything a
// caller has changed since the first run.
func (s *Store) Initialize(ctx context.Context) error {
	if !s.seedless {
		if err := s.seed(ctx); err != nil {
			return err
		}
	}
	if err := s.ensureEmptyCollections(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Refresh reloads every mirror and the session slot from the backend.
// Unparsable persisted data degrades to an empty collection.
func (s *Store) Refresh(ctx context.Context) error {
	users := loadSlice[models.User](ctx, s, kv.KeyUsers)
	products := loadSlice[models.Product](ctx, s, kv.KeyProducts)
	promotions := loadSlice[models.Promotion](ctx, s, kv.KeyPromotions)
	orders := loadSlice[models.Order](ctx, s, kv.KeyOrders)
	messages := loadSlice[models.Message](ctx, s, kv.KeyMessages)
	session := s.loadSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.products = products
	s.promotions = promotions
	s.orders = orders
	s.messages = messages
	s.session = session
	return nil
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) ensureEmptyCollections(ctx context.Context) error {
	for _, key := range []string{kv.KeyMessages, kv.KeyPromotions, kv.KeyOrders} {
		_, found, err := s.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("checking %s: %w", key, err)
		}
		if !found {
			if err := s.kv.Set(ctx, key, "[]"); err != nil {
				return fmt.Errorf("initializing %s: %w", key, err)
			}
		}
	}
	return nil
}

// NewID returns an opaque id: a millisecond timestamp prefix (keeps ids
// roughly sortable by creation time, as the storage format expects) plus a
// random suffix so back-to-back creates stay unique.
func (s *Store) NewID() string {
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

func loadSlice[T any](ctx context.Context, s *Store, key string) []T {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logg.Error(s.logg.WithCollection(ctx, key), "failed to read collection, continuing empty", err)
		return nil
	}
	if !found {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logg.Warn(s.logg.WithCollection(ctx, key), "corrupt collection, continuing empty")
		return nil
	}
	return out
}

func persistSlice[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}
