package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// newTestService pins the store clock so window checks are deterministic.
func newTestService(t *testing.T, clock *time.Time) Service {
	t.Helper()
	st, err := store.New(store.Params{
		KV:  kv.NewMemory(),
		Now: func() time.Time { return *clock },
	})
	if err != nil {
		t.Fatalf("store.New returned error: %v", err)
	}
	if err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	svc, err := NewService(ServiceParams{Store: st})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestActiveFollowsTheClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()

	promo, err := svc.Create(ctx, CreateInput{
		Title:         "Winter warm-up",
		StartAt:       now.Add(-24 * time.Hour),
		EndAt:         now.Add(24 * time.Hour),
		DiscountKind:  enums.DiscountKindPercent,
		DiscountValue: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if got := len(svc.Active()); got != 1 {
		t.Fatalf("expected 1 active campaign, got %d", got)
	}
	active, err := svc.IsActive(promo.ID)
	if err != nil {
		t.Fatalf("IsActive returned error: %v", err)
	}
	if !active {
		t.Fatal("expected campaign active inside its window")
	}

	// Move the clock past the window; no write happens, it just expires.
	now = now.Add(48 * time.Hour)
	if got := len(svc.Active()); got != 0 {
		t.Fatalf("expected no active campaigns after the window, got %d", got)
	}
	active, err = svc.IsActive(promo.ID)
	if err != nil {
		t.Fatalf("IsActive returned error: %v", err)
	}
	if active {
		t.Fatal("expected campaign inactive after its window")
	}
}

func TestWindowBoundariesAreInclusive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)

	promo, err := svc.Create(context.Background(), CreateInput{
		Title:         "One moment only",
		StartAt:       now,
		EndAt:         now,
		DiscountKind:  enums.DiscountKindFixed,
		DiscountValue: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	active, err := svc.IsActive(promo.ID)
	if err != nil {
		t.Fatalf("IsActive returned error: %v", err)
	}
	if !active {
		t.Fatal("expected start and end instants to count as active")
	}
}

func TestCreateRejectsBadCampaigns(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{
			name: "end before start",
			input: CreateInput{
				Title:         "Backwards",
				StartAt:       now,
				EndAt:         now.Add(-time.Hour),
				DiscountKind:  enums.DiscountKindPercent,
				DiscountValue: decimal.NewFromInt(10),
			},
		},
		{
			name: "zero discount",
			input: CreateInput{
				Title:        "Nothing off",
				StartAt:      now,
				EndAt:        now.Add(time.Hour),
				DiscountKind: enums.DiscountKindPercent,
			},
		},
		{
			name: "percentage above 100",
			input: CreateInput{
				Title:         "Too generous",
				StartAt:       now,
				EndAt:         now.Add(time.Hour),
				DiscountKind:  enums.DiscountKindPercent,
				DiscountValue: decimal.NewFromInt(150),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestCreateChecksTargetProduct(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)

	missing := "does-not-exist"
	_, err := svc.Create(context.Background(), CreateInput{
		Title:         "Ghost product",
		StartAt:       now,
		EndAt:         now.Add(time.Hour),
		DiscountKind:  enums.DiscountKindPercent,
		DiscountValue: decimal.NewFromInt(10),
		ProductID:     &missing,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for unknown target product, got %v", err)
	}
}

func TestUpdateCanDetachProduct(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()

	target := "1"
	promo, err := svc.Create(ctx, CreateInput{
		Title:         "Scoop special",
		StartAt:       now,
		EndAt:         now.Add(time.Hour),
		DiscountKind:  enums.DiscountKindPercent,
		DiscountValue: decimal.NewFromInt(10),
		ProductID:     &target,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	detach := ""
	updated, err := svc.Update(ctx, promo.ID, UpdateInput{ProductID: &detach})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ProductID != nil {
		t.Fatal("expected storewide campaign after detaching the product")
	}
}

func TestFormatDiscount(t *testing.T) {
	percent := models.Promotion{
		DiscountKind:  enums.DiscountKindPercent,
		DiscountValue: decimal.NewFromInt(25),
	}
	if got := FormatDiscount(percent); got != "25%" {
		t.Fatalf("expected 25%%, got %q", got)
	}

	fixed := models.Promotion{
		DiscountKind:  enums.DiscountKindFixed,
		DiscountValue: decimal.RequireFromString("5.5"),
	}
	if got := FormatDiscount(fixed); got != "R$ 5.50" {
		t.Fatalf("expected R$ 5.50, got %q", got)
	}
}
