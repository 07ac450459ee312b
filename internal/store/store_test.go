package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backend := kv.NewMemory()
	s, err := New(Params{KV: backend})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	return s, backend
}

func TestInitializeSeedsCatalogAndAccounts(t *testing.T) {
	s, _ := newTestStore(t)

	products := s.ListProducts()
	if len(products) != 8 {
		t.Fatalf("expected 8 seeded products, got %d", len(products))
	}

	admin, err := s.FindUserByEmail(SeedAdminEmail)
	if err != nil {
		t.Fatalf("expected seeded admin: %v", err)
	}
	if admin.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	staff, err := s.FindUserByEmail(SeedStaffEmail)
	if err != nil {
		t.Fatalf("expected seeded staff: %v", err)
	}
	if staff.Role != enums.UserRoleStaff {
		t.Fatalf("expected staff role, got %s", staff.Role)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Initialize(ctx); err != nil {
			t.Fatalf("repeated Initialize returned error: %v", err)
		}
	}

	if got := len(s.ListProducts()); got != 8 {
		t.Fatalf("expected catalog to stay at 8 products, got %d", got)
	}
	if got := len(s.ListUsers()); got != 2 {
		t.Fatalf("expected exactly the 2 seed users, got %d", got)
	}
}

func TestInitializeRestoresMissingSeedAccount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	admin, err := s.FindUserByEmail(SeedAdminEmail)
	if err != nil {
		t.Fatalf("expected seeded admin: %v", err)
	}
	if err := s.DeleteUser(ctx, admin.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}

	// A user the retailer registered must survive the re-seed untouched.
	customer, err := s.SaveUser(ctx, models.User{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "hunter2",
		Role:     enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("SaveUser returned error: %v", err)
	}

	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if _, err := s.FindUserByEmail(SeedAdminEmail); err != nil {
		t.Fatalf("expected admin account restored: %v", err)
	}
	kept, err := s.FindUserByID(customer.ID)
	if err != nil {
		t.Fatalf("expected registered user to survive: %v", err)
	}
	if kept.Password != "hunter2" {
		t.Fatal("expected registered user data untouched")
	}
	if got := len(s.ListUsers()); got != 3 {
		t.Fatalf("expected 3 users after restore, got %d", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	before := len(s.ListPromotions())
	saved, err := s.SavePromotion(ctx, models.Promotion{
		Title:         "Winter special",
		Description:   "Half-price scoops",
		StartAt:       time.Now().Add(-time.Hour),
		EndAt:         time.Now().Add(time.Hour),
		DiscountKind:  enums.DiscountKindPercent,
		DiscountValue: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("SavePromotion returned error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a freshly assigned id")
	}
	if got := len(s.ListPromotions()); got != before+1 {
		t.Fatalf("expected %d promotions, got %d", before+1, got)
	}

	found, err := s.FindPromotionByID(saved.ID)
	if err != nil {
		t.Fatalf("FindPromotionByID returned error: %v", err)
	}
	if found.Title != saved.Title || !found.DiscountValue.Equal(saved.DiscountValue) {
		t.Fatalf("round-trip mismatch: %+v vs %+v", found, saved)
	}
}

func TestSaveReplacesInPlace(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	products := s.ListProducts()
	target := products[2]
	target.Name = "Renamed"
	if _, err := s.SaveProduct(ctx, target); err != nil {
		t.Fatalf("SaveProduct returned error: %v", err)
	}

	after := s.ListProducts()
	if len(after) != len(products) {
		t.Fatalf("expected count unchanged, got %d", len(after))
	}
	if after[2].ID != target.ID || after[2].Name != "Renamed" {
		t.Fatal("expected record replaced at its original position")
	}
}

func TestSavePersistsAcrossRestart(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveMessage(ctx, models.Message{
		Name:  "João",
		Email: "joao@example.com",
		Body:  "Do you deliver?",
	})
	if err != nil {
		t.Fatalf("SaveMessage returned error: %v", err)
	}

	reopened, err := New(Params{KV: backend})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := reopened.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	msg, err := reopened.FindMessageByID(saved.ID)
	if err != nil {
		t.Fatalf("expected message to survive restart: %v", err)
	}
	if msg.Body != "Do you deliver?" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	before := len(s.ListProducts())
	if err := s.DeleteProduct(ctx, "does-not-exist"); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}
	if got := len(s.ListProducts()); got != before {
		t.Fatalf("expected count unchanged, got %d", got)
	}
}

func TestFindAbsentReturnsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.FindOrderByID("missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCorruptCollectionDegradesToEmpty(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	if err := backend.Set(ctx, kv.KeyOrders, "{definitely not json"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	s, err := New(Params{KV: backend})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("expected corrupt collection to be recovered, got %v", err)
	}
	if got := len(s.ListOrders()); got != 0 {
		t.Fatalf("expected empty orders after corruption, got %d", got)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	admin, err := s.FindUserByEmail(SeedAdminEmail)
	if err != nil {
		t.Fatalf("expected seeded admin: %v", err)
	}
	if err := s.SetSession(ctx, admin); err != nil {
		t.Fatalf("SetSession returned error: %v", err)
	}

	reopened, err := New(Params{KV: backend})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := reopened.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	actor := reopened.Session()
	if actor == nil || actor.ID != admin.ID {
		t.Fatalf("expected session to survive restart, got %+v", actor)
	}

	if err := reopened.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession returned error: %v", err)
	}
	if reopened.Session() != nil {
		t.Fatal("expected session cleared")
	}
}

func TestGetCartAbsentMeansEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	cart, err := s.GetCart(context.Background(), "someone")
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.OwnerID != "someone" {
		t.Fatalf("expected owner id set, got %q", cart.OwnerID)
	}
}

func TestNewIDsAreUniqueAndTimeOrdered(t *testing.T) {
	s, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
