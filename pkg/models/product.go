package models

import (
	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	BasePrice   decimal.Decimal       `json:"basePrice"`
	Description string                `json:"description"`
	ImageRef    string                `json:"imageRef"`
	OnSale      bool                  `json:"onSale,omitempty"`
	SalePrice   *decimal.Decimal      `json:"salePrice,omitempty"`
}

// EffectivePrice returns the sale price while the product is on sale,
// otherwise the base price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.BasePrice
}
