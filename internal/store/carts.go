package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// GetCart returns the stored cart for ownerID. A missing key means an empty
// cart, not an error; unparsable cart data also degrades to empty.
func (s *Store) GetCart(ctx context.Context, ownerID string) (models.Cart, error) {
	empty := models.Cart{OwnerID: ownerID, Items: []models.CartItem{}, UpdatedAt: s.now()}
	if ownerID == "" {
		return empty, nil
	}

	raw, found, err := s.kv.Get(ctx, kv.CartKey(ownerID))
	if err != nil {
		return models.Cart{}, fmt.Errorf("reading cart for %s: %w", ownerID, err)
	}
	if !found {
		return empty, nil
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logg.Warn(s.logg.WithCollection(ctx, kv.CartKey(ownerID)), "corrupt cart, continuing empty")
		return empty, nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// SaveCart stamps the cart and writes it under the owner's key.
func (s *Store) SaveCart(ctx context.Context, cart models.Cart) (models.Cart, error) {
	if cart.OwnerID == "" {
		return models.Cart{}, fmt.Errorf("cart owner id is required")
	}
	cart.UpdatedAt = s.now()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return models.Cart{}, fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.kv.Set(ctx, kv.CartKey(cart.OwnerID), string(raw)); err != nil {
		return models.Cart{}, fmt.Errorf("persisting cart for %s: %w", cart.OwnerID, err)
	}
	return cart, nil
}

// DeleteCart removes the owner's stored cart. Missing carts are a no-op.
func (s *Store) DeleteCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	return s.kv.Delete(ctx, kv.CartKey(ownerID))
}
