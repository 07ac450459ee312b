package checkout

import (
	"context"

	"github.com/sorvetesinacio/storefront/internal/cart"
	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Store  *store.Store
	Cart   cart.Service
	Logger *logger.Logger
}

// Service turns a cart into a pending order.
type Service interface {
	Checkout(ctx context.Context, ownerID string) (models.Order, error)
}

type service struct {
	store *store.Store
	cart  cart.Service
	logg  *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "checkout"})
	}
	return &service{store: params.Store, cart: params.Cart, logg: logg}, nil
}

// Checkout snapshots the cart at today's effective prices into a pending
// order, then clears the cart. The order's unit prices are frozen: later
// catalog changes never alter a placed order. The cart is only cleared once
// the order is durable; if clearing fails the order is rolled back so the two
// never diverge.
func (s *service) Checkout(ctx context.Context, ownerID string) (models.Order, error) {
	if ownerID == "" {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login before checking out")
	}

	view, err := s.cart.View(ctx, ownerID)
	if err != nil {
		return models.Order{}, err
	}
	if view.IsEmpty() {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	order := models.Order{
		OwnerID: ownerID,
		Status:  enums.OrderStatusPending,
		Total:   view.Total,
	}
	for _, line := range view.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	placed, err := s.store.SaveOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.cart.Clear(ctx, ownerID); err != nil {
		if rollbackErr := s.store.DeleteOrder(ctx, placed.ID); rollbackErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "order_id", placed.ID), "order rollback failed after cart clear error", rollbackErr)
		}
		return models.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart after checkout")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": placed.ID,
		"user_id":  ownerID,
		"total":    placed.Total.StringFixed(2),
	}), "order placed")
	return placed, nil
}
