package orders

import (
	"context"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service exposes order lookup and back-office status management.
type Service interface {
	List() []models.Order
	ListByOwner(ownerID string) []models.Order
	FindByID(id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status enums.OrderStatus) (models.Order, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "orders"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

func (s *service) List() []models.Order {
	return s.store.ListOrders()
}

func (s *service) ListByOwner(ownerID string) []models.Order {
	return s.store.ListOrdersByOwner(ownerID)
}

func (s *service) FindByID(id string) (models.Order, error) {
	return s.store.FindOrderByID(id)
}

// UpdateStatus moves an order to any valid status. Transitions are
// deliberately unrestricted; the back office may correct mistakes, including
// reopening a cancelled order.
func (s *service) UpdateStatus(ctx context.Context, id string, status enums.OrderStatus) (models.Order, error) {
	if !status.IsValid() {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": string(status)})
	}
	order, err := s.store.FindOrderByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == status {
		return order, nil
	}

	previous := order.Status
	order.Status = status
	updated, err := s.store.SaveOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id,
		"from":     previous.String(),
		"to":       status.String(),
	}), "order status updated")
	return updated, nil
}

// Delete removes an order outright. Unknown ids are a no-op.
func (s *service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteOrder(ctx, id)
}
