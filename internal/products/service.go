package products

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
	"github.com/sorvetesinacio/storefront/pkg/validators"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service exposes the product catalog: storefront reads plus the back-office
// create/update/delete operations.
type Service interface {
	List() []models.Product
	ByCategory(category enums.ProductCategory) []models.Product
	Promotional() []models.Product
	FindByID(id string) (models.Product, error)

	Create(ctx context.Context, input CreateInput) (models.Product, error)
	Update(ctx context.Context, id string, input UpdateInput) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// CreateInput carries a new catalog entry.
type CreateInput struct {
	Name        string                `json:"name" validate:"required"`
	Category    enums.ProductCategory `json:"category" validate:"required,oneof=scoop cone by_weight combo"`
	BasePrice   decimal.Decimal       `json:"basePrice"`
	Description string                `json:"description"`
	ImageRef    string                `json:"imageRef"`
	OnSale      bool                  `json:"onSale"`
	SalePrice   *decimal.Decimal      `json:"salePrice"`
}

// UpdateInput carries partial catalog changes. A nil field is left untouched;
// ClearSalePrice removes the sale price regardless of SalePrice.
type UpdateInput struct {
	Name           *string                `json:"name" validate:"omitempty,min=1"`
	Category       *enums.ProductCategory `json:"category" validate:"omitempty,oneof=scoop cone by_weight combo"`
	BasePrice      *decimal.Decimal       `json:"basePrice"`
	Description    *string                `json:"description"`
	ImageRef       *string                `json:"imageRef"`
	OnSale         *bool                  `json:"onSale"`
	SalePrice      *decimal.Decimal       `json:"salePrice"`
	ClearSalePrice bool                   `json:"clearSalePrice"`
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "products"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

func (s *service) List() []models.Product {
	return s.store.ListProducts()
}

func (s *service) ByCategory(category enums.ProductCategory) []models.Product {
	return s.store.ListProductsByCategory(category)
}

func (s *service) Promotional() []models.Product {
	return s.store.ListPromotionalProducts()
}

func (s *service) FindByID(id string) (models.Product, error) {
	return s.store.FindProductByID(id)
}

// Create validates and persists a new product. The store assigns the id.
func (s *service) Create(ctx context.Context, input CreateInput) (models.Product, error) {
	if err := validators.Struct(input); err != nil {
		return models.Product{}, err
	}
	product := models.Product{
		Name:        input.Name,
		Category:    input.Category,
		BasePrice:   input.BasePrice,
		Description: input.Description,
		ImageRef:    input.ImageRef,
		OnSale:      input.OnSale,
		SalePrice:   input.SalePrice,
	}
	if err := checkPricing(product); err != nil {
		return models.Product{}, err
	}

	saved, err := s.store.SaveProduct(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", saved.ID), "product created")
	return saved, nil
}

// Update applies partial changes to an existing product.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (models.Product, error) {
	if err := validators.Struct(input); err != nil {
		return models.Product{}, err
	}
	product, err := s.store.FindProductByID(id)
	if err != nil {
		return models.Product{}, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ImageRef != nil {
		product.ImageRef = *input.ImageRef
	}
	if input.OnSale != nil {
		product.OnSale = *input.OnSale
	}
	if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.ClearSalePrice {
		product.SalePrice = nil
		product.OnSale = false
	}
	if err := checkPricing(product); err != nil {
		return models.Product{}, err
	}

	return s.store.SaveProduct(ctx, product)
}

// Delete removes a product from the catalog. Unknown ids are a no-op; cart
// lines pointing at the gone product fall out the next time the cart is read.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	return nil
}

// checkPricing guards the invariants the validator tags cannot express: a
// positive base price, and a sale price below the base price when on sale.
func checkPricing(product models.Product) error {
	if !product.BasePrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price must be positive")
	}
	if product.OnSale {
		if product.SalePrice == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale price is required while on sale")
		}
		if !product.SalePrice.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive")
		}
		if product.SalePrice.GreaterThanOrEqual(product.BasePrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be below the base price")
		}
	}
	return nil
}
