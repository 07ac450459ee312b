package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
)

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service computes the back-office dashboard numbers. Everything is derived
// from current state on each call; nothing is cached or stored.
type Service interface {
	Snapshot() Snapshot
}

// Snapshot is one dashboard reading.
type Snapshot struct {
	ProductCount       int             `json:"productCount"`
	UserCount          int             `json:"userCount"`
	OrderCount         int             `json:"orderCount"`
	PendingOrderCount  int             `json:"pendingOrderCount"`
	UnreadMessageCount int             `json:"unreadMessageCount"`
	Revenue            decimal.Decimal `json:"revenue"`
	TopProducts        []ProductSales  `json:"topProducts"`
}

// ProductSales aggregates the units sold of one product across all orders.
type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

const topProductsLimit = 5

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds an analytics service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "analytics"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

// Snapshot tallies counts, revenue and best sellers. Revenue counts paid and
// delivered orders only; pending orders are money not yet collected and
// cancelled ones never will be. Best sellers count units across every order
// regardless of status, capped at five, ranked by quantity with product id as
// the tie-break. Products deleted since their orders were placed still rank,
// under a placeholder name.
func (s *service) Snapshot() Snapshot {
	orders := s.store.ListOrders()

	snap := Snapshot{
		ProductCount: len(s.store.ListProducts()),
		UserCount:    len(s.store.ListUsers()),
		OrderCount:   len(orders),
		Revenue:      decimal.Zero,
	}
	for _, msg := range s.store.ListMessages() {
		if !msg.Read {
			snap.UnreadMessageCount++
		}
	}

	sold := map[string]*ProductSales{}
	for _, order := range orders {
		if order.Status.CountsAsRevenue() {
			snap.Revenue = snap.Revenue.Add(order.Total)
		}
		if order.Status == enums.OrderStatusPending {
			snap.PendingOrderCount++
		}
		for _, item := range order.Items {
			entry, ok := sold[item.ProductID]
			if !ok {
				entry = &ProductSales{ProductID: item.ProductID, Revenue: decimal.Zero}
				sold[item.ProductID] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	ranked := make([]ProductSales, 0, len(sold))
	for _, entry := range sold {
		entry.Name = s.productName(entry.ProductID)
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	snap.TopProducts = ranked
	return snap
}

func (s *service) productName(id string) string {
	product, err := s.store.FindProductByID(id)
	if err != nil {
		return "Unknown Product"
	}
	return product.Name
}
