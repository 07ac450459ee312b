package store

import (
	"context"
	"slices"

	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ListProducts returns a copy of the product collection.
func (s *Store) ListProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// ListProductsByCategory filters the catalog by category.
func (s *Store) ListProductsByCategory(category enums.ProductCategory) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, product := range s.products {
		if product.Category == category {
			out = append(out, product)
		}
	}
	return out
}

// ListPromotionalProducts returns the products currently flagged on sale.
func (s *Store) ListPromotionalProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, product := range s.products {
		if product.OnSale {
			out = append(out, product)
		}
	}
	return out
}

// FindProductByID returns the matching product or a NOT_FOUND error.
func (s *Store) FindProductByID(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products {
		if product.ID == id {
			return product, nil
		}
	}
	return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// SaveProduct replaces the record matching the id in place, or appends a new
// record with a fresh id, then persists the full collection.
func (s *Store) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.products
	if idx := indexByID(s.products, product.ID, func(p models.Product) string { return p.ID }); idx >= 0 {
		s.products = slices.Clone(s.products)
		s.products[idx] = product
	} else {
		if product.ID == "" {
			product.ID = s.NewID()
		}
		s.products = append(slices.Clone(s.products), product)
	}

	if err := persistSlice(ctx, s, kv.KeyProducts, s.products); err != nil {
		s.products = previous
		return models.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes the product and persists the result. Unknown ids are
// a no-op. Cart lines referencing the product are not cleaned up; they are
// filtered out when the cart is read.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.products, id, func(p models.Product) string { return p.ID })
	if idx < 0 {
		return nil
	}
	previous := s.products
	s.products = slices.Delete(slices.Clone(s.products), idx, idx+1)

	if err := persistSlice(ctx, s, kv.KeyProducts, s.products); err != nil {
		s.products = previous
		return err
	}
	return nil
}
