package analytics

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

func newTestService(t *testing.T) (Service, *store.Store) {
	t.Helper()
	st, err := store.New(store.Params{KV: kv.NewMemory()})
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
	return svc, st
}

func saveOrder(t *testing.T, st *store.Store, status enums.OrderStatus, items ...models.OrderItem) {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if _, err := st.SaveOrder(context.Background(), models.Order{
		OwnerID: "customer",
		Status:  status,
		Total:   total,
		Items:   items,
	}); err != nil {
		t.Fatalf("SaveOrder returned error: %v", err)
	}
}

func item(productID string, quantity int, unitPrice string) models.OrderItem {
	return models.OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
}

func TestSnapshotCountsAndRevenue(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	saveOrder(t, st, enums.OrderStatusPaid, item("1", 1, "15.90"))
	saveOrder(t, st, enums.OrderStatusDelivered, item("2", 2, "9.90"))
	saveOrder(t, st, enums.OrderStatusPending, item("3", 1, "16.90"))
	saveOrder(t, st, enums.OrderStatusCancelled, item("4", 1, "80.00"))

	if _, err := st.SaveMessage(ctx, models.Message{Name: "João", Email: "joao@example.com", Body: "hi"}); err != nil {
		t.Fatalf("SaveMessage returned error: %v", err)
	}

	snap := svc.Snapshot()
	if snap.ProductCount != 8 {
		t.Fatalf("expected 8 products, got %d", snap.ProductCount)
	}
	if snap.UserCount != 2 {
		t.Fatalf("expected 2 users, got %d", snap.UserCount)
	}
	if snap.OrderCount != 4 {
		t.Fatalf("expected 4 orders, got %d", snap.OrderCount)
	}
	if snap.PendingOrderCount != 1 {
		t.Fatalf("expected 1 pending order, got %d", snap.PendingOrderCount)
	}
	if snap.UnreadMessageCount != 1 {
		t.Fatalf("expected 1 unread message, got %d", snap.UnreadMessageCount)
	}
	// Only the paid and the delivered order count: 15.90 + 19.80.
	if want := decimal.RequireFromString("35.70"); !snap.Revenue.Equal(want) {
		t.Fatalf("expected revenue %s, got %s", want, snap.Revenue)
	}
}

func TestSnapshotRanksBestSellers(t *testing.T) {
	svc, st := newTestService(t)

	// Units per product: 1 → 5, 2 → 3, 3 → 3, 4..7 → 1 each.
	saveOrder(t, st, enums.OrderStatusPaid, item("1", 3, "15.90"), item("3", 3, "16.90"))
	saveOrder(t, st, enums.OrderStatusPending, item("1", 2, "15.90"), item("2", 3, "9.90"))
	saveOrder(t, st, enums.OrderStatusCancelled,
		item("4", 1, "80.00"), item("5", 1, "19.90"), item("6", 1, "16.90"), item("7", 1, "17.90"))

	snap := svc.Snapshot()
	if len(snap.TopProducts) != 5 {
		t.Fatalf("expected top list capped at 5, got %d", len(snap.TopProducts))
	}
	if snap.TopProducts[0].ProductID != "1" || snap.TopProducts[0].Quantity != 5 {
		t.Fatalf("expected product 1 on top with 5 units, got %+v", snap.TopProducts[0])
	}
	// 2 and 3 tie at 3 units; the lower product id ranks first.
	if snap.TopProducts[1].ProductID != "2" || snap.TopProducts[2].ProductID != "3" {
		t.Fatalf("expected tie broken by product id, got %+v", snap.TopProducts[1:3])
	}
	if snap.TopProducts[0].Name != "Belgian Chocolate Scoop" {
		t.Fatalf("expected catalog name joined in, got %q", snap.TopProducts[0].Name)
	}
}

func TestSnapshotNamesDeletedProducts(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	saveOrder(t, st, enums.OrderStatusPaid, item("1", 2, "15.90"))
	if err := st.DeleteProduct(ctx, "1"); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.TopProducts) != 1 {
		t.Fatalf("expected 1 ranked product, got %d", len(snap.TopProducts))
	}
	if snap.TopProducts[0].Name != "Unknown Product" {
		t.Fatalf("expected placeholder name, got %q", snap.TopProducts[0].Name)
	}
}

func TestSnapshotEmptyState(t *testing.T) {
	svc, _ := newTestService(t)

	snap := svc.Snapshot()
	if snap.OrderCount != 0 || len(snap.TopProducts) != 0 {
		t.Fatalf("expected empty order stats, got %+v", snap)
	}
	if !snap.Revenue.Equal(decimal.Zero) {
		t.Fatalf("expected zero revenue, got %s", snap.Revenue)
	}
}
