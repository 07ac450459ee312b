package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service manages per-owner carts. Carts store only product ids and
// quantities; prices are joined against the live catalog on every read, so a
// price change shows up in the cart immediately.
type Service interface {
	View(ctx context.Context, ownerID string) (View, error)
	Add(ctx context.Context, ownerID, productID string, quantity int) (View, error)
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (View, error)
	Remove(ctx context.Context, ownerID, productID string) (View, error)
	Clear(ctx context.Context, ownerID string) error
	ItemsCount(ctx context.Context, ownerID string) (int, error)
}

// Line is a cart item joined with its catalog product at the effective price.
type Line struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// View is the priced rendering of a cart.
type View struct {
	OwnerID string          `json:"ownerId"`
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

// IsEmpty reports whether the cart holds no lines.
func (v View) IsEmpty() bool {
	return len(v.Lines) == 0
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "cart"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

// View joins the stored cart against the catalog. Lines whose product no
// longer exists are dropped from the result and pruned from storage.
func (s *service) View(ctx context.Context, ownerID string) (View, error) {
	cart, err := s.store.GetCart(ctx, ownerID)
	if err != nil {
		return View{}, err
	}
	return s.render(ctx, cart)
}

// Add puts quantity units of a product in the cart, incrementing the line if
// one already exists. The product must exist and quantity must be at least 1.
func (s *service) Add(ctx context.Context, ownerID, productID string, quantity int) (View, error) {
	if ownerID == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart owner is required")
	}
	if quantity < 1 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.store.FindProductByID(productID); err != nil {
		return View{}, err
	}

	cart, err := s.store.GetCart(ctx, ownerID)
	if err != nil {
		return View{}, err
	}
	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	saved, err := s.store.SaveCart(ctx, cart)
	if err != nil {
		return View{}, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, ownerID), "cart item added")
	return s.render(ctx, saved)
}

// SetQuantity pins a line to an exact quantity. Zero or negative removes the
// line, mirroring Remove.
func (s *service) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (View, error) {
	if quantity <= 0 {
		return s.Remove(ctx, ownerID, productID)
	}

	cart, err := s.store.GetCart(ctx, ownerID)
	if err != nil {
		return View{}, err
	}
	idx := cart.FindItem(productID)
	if idx < 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	cart.Items[idx].Quantity = quantity

	saved, err := s.store.SaveCart(ctx, cart)
	if err != nil {
		return View{}, err
	}
	return s.render(ctx, saved)
}

// Remove drops a line from the cart. Removing an absent line is a no-op.
func (s *service) Remove(ctx context.Context, ownerID, productID string) (View, error) {
	cart, err := s.store.GetCart(ctx, ownerID)
	if err != nil {
		return View{}, err
	}
	idx := cart.FindItem(productID)
	if idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		if cart, err = s.store.SaveCart(ctx, cart); err != nil {
			return View{}, err
		}
	}
	return s.render(ctx, cart)
}

// Clear deletes the owner's cart entirely.
func (s *service) Clear(ctx context.Context, ownerID string) error {
	return s.store.DeleteCart(ctx, ownerID)
}

// ItemsCount sums the quantities across all live lines, for badge display.
func (s *service) ItemsCount(ctx context.Context, ownerID string) (int, error) {
	view, err := s.View(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range view.Lines {
		count += line.Quantity
	}
	return count, nil
}

// render prices each line at the product's effective price and totals the
// cart. Dangling lines are pruned from storage so they do not resurface.
func (s *service) render(ctx context.Context, cart models.Cart) (View, error) {
	view := View{OwnerID: cart.OwnerID, Lines: []Line{}, Total: decimal.Zero}
	dropped := false
	kept := cart.Items[:0:0]

	for _, item := range cart.Items {
		product, err := s.store.FindProductByID(item.ProductID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				dropped = true
				continue
			}
			return View{}, err
		}
		unit := product.EffectivePrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Lines = append(view.Lines, Line{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
		kept = append(kept, item)
	}

	if dropped && cart.OwnerID != "" {
		cart.Items = kept
		if _, err := s.store.SaveCart(ctx, cart); err != nil {
			return View{}, err
		}
		s.logg.Warn(s.logg.WithUserID(ctx, cart.OwnerID), "pruned cart lines for deleted products")
	}
	return view, nil
}
