package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
	"github.com/sorvetesinacio/storefront/pkg/validators"
)

// ServiceParams groups dependencies for the promotions service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service manages time-windowed campaigns. Activity is evaluated against the
// clock on every call, never cached: a promotion crossing its end instant
// stops being active without any write.
type Service interface {
	List() []models.Promotion
	Active() []models.Promotion
	FindByID(id string) (models.Promotion, error)
	IsActive(id string) (bool, error)

	Create(ctx context.Context, input CreateInput) (models.Promotion, error)
	Update(ctx context.Context, id string, input UpdateInput) (models.Promotion, error)
	Delete(ctx context.Context, id string) error
}

// CreateInput carries a new campaign.
type CreateInput struct {
	Title         string             `json:"title" validate:"required"`
	Description   string             `json:"description"`
	StartAt       time.Time          `json:"startAt" validate:"required"`
	EndAt         time.Time          `json:"endAt" validate:"required"`
	DiscountKind  enums.DiscountKind `json:"discountKind" validate:"required,oneof=percent fixed"`
	DiscountValue decimal.Decimal    `json:"discountValue"`
	ProductID     *string            `json:"productId"`
}

// UpdateInput carries partial campaign changes.
type UpdateInput struct {
	Title         *string             `json:"title" validate:"omitempty,min=1"`
	Description   *string             `json:"description"`
	StartAt       *time.Time          `json:"startAt"`
	EndAt         *time.Time          `json:"endAt"`
	DiscountKind  *enums.DiscountKind `json:"discountKind" validate:"omitempty,oneof=percent fixed"`
	DiscountValue *decimal.Decimal    `json:"discountValue"`
	ProductID     *string             `json:"productId"`
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds a promotions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "promotions"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

func (s *service) List() []models.Promotion {
	return s.store.ListPromotions()
}

// Active returns the campaigns whose window contains this instant.
func (s *service) Active() []models.Promotion {
	now := s.store.Now()
	var out []models.Promotion
	for _, promo := range s.store.ListPromotions() {
		if promo.IsActiveAt(now) {
			out = append(out, promo)
		}
	}
	return out
}

func (s *service) FindByID(id string) (models.Promotion, error) {
	return s.store.FindPromotionByID(id)
}

// IsActive reports whether the campaign's window contains this instant.
func (s *service) IsActive(id string) (bool, error) {
	promo, err := s.store.FindPromotionByID(id)
	if err != nil {
		return false, err
	}
	return promo.IsActiveAt(s.store.Now()), nil
}

// Create validates and persists a new campaign.
func (s *service) Create(ctx context.Context, input CreateInput) (models.Promotion, error) {
	if err := validators.Struct(input); err != nil {
		return models.Promotion{}, err
	}
	promo := models.Promotion{
		Title:         input.Title,
		Description:   input.Description,
		StartAt:       input.StartAt,
		EndAt:         input.EndAt,
		DiscountKind:  input.DiscountKind,
		DiscountValue: input.DiscountValue,
		ProductID:     input.ProductID,
	}
	if err := checkCampaign(promo); err != nil {
		return models.Promotion{}, err
	}
	if promo.ProductID != nil {
		if _, err := s.store.FindProductByID(*promo.ProductID); err != nil {
			return models.Promotion{}, err
		}
	}

	saved, err := s.store.SavePromotion(ctx, promo)
	if err != nil {
		return models.Promotion{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "promotion_id", saved.ID), "promotion created")
	return saved, nil
}

// Update applies partial changes to an existing campaign.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (models.Promotion, error) {
	if err := validators.Struct(input); err != nil {
		return models.Promotion{}, err
	}
	promo, err := s.store.FindPromotionByID(id)
	if err != nil {
		return models.Promotion{}, err
	}

	if input.Title != nil {
		promo.Title = *input.Title
	}
	if input.Description != nil {
		promo.Description = *input.Description
	}
	if input.StartAt != nil {
		promo.StartAt = *input.StartAt
	}
	if input.EndAt != nil {
		promo.EndAt = *input.EndAt
	}
	if input.DiscountKind != nil {
		promo.DiscountKind = *input.DiscountKind
	}
	if input.DiscountValue != nil {
		promo.DiscountValue = *input.DiscountValue
	}
	if input.ProductID != nil {
		if *input.ProductID == "" {
			promo.ProductID = nil
		} else {
			if _, err := s.store.FindProductByID(*input.ProductID); err != nil {
				return models.Promotion{}, err
			}
			promo.ProductID = input.ProductID
		}
	}
	if err := checkCampaign(promo); err != nil {
		return models.Promotion{}, err
	}

	return s.store.SavePromotion(ctx, promo)
}

// Delete removes a campaign. Unknown ids are a no-op.
func (s *service) Delete(ctx context.Context, id string) error {
	return s.store.DeletePromotion(ctx, id)
}

// FormatDiscount renders a discount for display: "25%" for percentages,
// "R$ 5.00" for fixed amounts.
func FormatDiscount(promo models.Promotion) string {
	if promo.DiscountKind == enums.DiscountKindPercent {
		return fmt.Sprintf("%s%%", promo.DiscountValue.String())
	}
	return fmt.Sprintf("R$ %s", promo.DiscountValue.StringFixed(2))
}

// checkCampaign guards the invariants the validator tags cannot express.
func checkCampaign(promo models.Promotion) error {
	if promo.EndAt.Before(promo.StartAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign must end at or after its start")
	}
	if !promo.DiscountValue.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if promo.DiscountKind == enums.DiscountKindPercent && promo.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	return nil
}
