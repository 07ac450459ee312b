package store

import (
	"context"
	"slices"

	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ListOrders returns a copy of the order collection.
func (s *Store) ListOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// ListOrdersByOwner returns the orders belonging to ownerID.
func (s *Store) ListOrdersByOwner(ownerID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.OwnerID == ownerID {
			out = append(out, order)
		}
	}
	return out
}

// FindOrderByID returns the matching order or a NOT_FOUND error.
func (s *Store) FindOrderByID(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return models.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// SaveOrder replaces the record matching the id in place, or appends a new
// record with a fresh id and creation timestamp, then persists the full
// collection.
func (s *Store) SaveOrder(ctx context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.orders
	if idx := indexByID(s.orders, order.ID, func(o models.Order) string { return o.ID }); idx >= 0 {
		s.orders = slices.Clone(s.orders)
		s.orders[idx] = order
	} else {
		if order.ID == "" {
			order.ID = s.NewID()
		}
		if order.CreatedAt.IsZero() {
			order.CreatedAt = s.now()
		}
		s.orders = append(slices.Clone(s.orders), order)
	}

	if err := persistSlice(ctx, s, kv.KeyOrders, s.orders); err != nil {
		s.orders = previous
		return models.Order{}, err
	}
	return order, nil
}

// DeleteOrder removes the order and persists the result. Unknown ids are a
// no-op.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.orders, id, func(o models.Order) string { return o.ID })
	if idx < 0 {
		return nil
	}
	previous := s.orders
	s.orders = slices.Delete(slices.Clone(s.orders), idx, idx+1)

	if err := persistSlice(ctx, s, kv.KeyOrders, s.orders); err != nil {
		s.orders = previous
		return err
	}
	return nil
}
