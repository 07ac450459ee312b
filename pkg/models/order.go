package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/pkg/enums"
)

// OrderItem snapshots one line at the moment of checkout. UnitPrice is the
// effective price at order time; later product price changes never touch it.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order is immutable in its items and total once created; only Status
// may change afterwards.
type Order struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Items     []OrderItem       `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
