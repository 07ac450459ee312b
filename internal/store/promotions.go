package store

import (
	"context"
	"slices"

	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ListPromotions returns a copy of the promotion collection.
func (s *Store) ListPromotions() []models.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.promotions)
}

// FindPromotionByID returns the matching promotion or a NOT_FOUND error.
func (s *Store) FindPromotionByID(id string) (models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, promotion := range s.promotions {
		if promotion.ID == id {
			return promotion, nil
		}
	}
	return models.Promotion{}, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
}

// SavePromotion replaces the record matching the id in place, or appends a
// new record with a fresh id, then persists the full collection.
func (s *Store) SavePromotion(ctx context.Context, promotion models.Promotion) (models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.promotions
	if idx := indexByID(s.promotions, promotion.ID, func(p models.Promotion) string { return p.ID }); idx >= 0 {
		s.promotions = slices.Clone(s.promotions)
		s.promotions[idx] = promotion
	} else {
		if promotion.ID == "" {
			promotion.ID = s.NewID()
		}
		s.promotions = append(slices.Clone(s.promotions), promotion)
	}

	if err := persistSlice(ctx, s, kv.KeyPromotions, s.promotions); err != nil {
		s.promotions = previous
		return models.Promotion{}, err
	}
	return promotion, nil
}

// DeletePromotion removes the promotion and persists the result. Unknown ids
// are a no-op.
func (s *Store) DeletePromotion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.promotions, id, func(p models.Promotion) string { return p.ID })
	if idx < 0 {
		return nil
	}
	previous := s.promotions
	s.promotions = slices.Delete(slices.Clone(s.promotions), idx, idx+1)

	if err := persistSlice(ctx, s, kv.KeyPromotions, s.promotions); err != nil {
		s.promotions = previous
		return err
	}
	return nil
}
