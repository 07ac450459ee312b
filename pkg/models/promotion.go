package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/pkg/enums"
)

// Promotion is a time-windowed discount. Whether it is active is always
// derived from the window, never stored.
type Promotion struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	StartAt       time.Time          `json:"startAt"`
	EndAt         time.Time          `json:"endAt"`
	DiscountKind  enums.DiscountKind `json:"discountKind"`
	DiscountValue decimal.Decimal    `json:"discountValue"`
	ProductID     *string            `json:"productId,omitempty"`
}

// IsActiveAt reports whether now falls inside [StartAt, EndAt].
func (p Promotion) IsActiveAt(now time.Time) bool {
	return !now.Before(p.StartAt) && !now.After(p.EndAt)
}
