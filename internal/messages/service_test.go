package messages

import (
	"context"
	"testing"

	"github.com/sorvetesinacio/storefront/internal/store"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
)

func newTestService(t *testing.T) Service {
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
	return svc
}

func TestSendStoresUnreadWithTimestamp(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Send(context.Background(), SendInput{
		Name:  "João",
		Email: "joao@example.com",
		Body:  "Do you deliver on Sundays?",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if msg.ID == "" || msg.SentAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned, got %+v", msg)
	}
	if msg.Read {
		t.Fatal("expected new message to start unread")
	}
	if got := len(svc.List()); got != 1 {
		t.Fatalf("expected 1 message, got %d", got)
	}
}

func TestSendValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []SendInput{
		{Email: "joao@example.com", Body: "hi"},
		{Name: "João", Email: "not-an-email", Body: "hi"},
		{Name: "João", Email: "joao@example.com"},
	}
	for _, input := range cases {
		if _, err := svc.Send(ctx, input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected VALIDATION_ERROR for %+v, got %v", input, err)
		}
	}
}

func TestUnreadTracking(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Send(ctx, SendInput{Name: "João", Email: "joao@example.com", Body: "first"})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if _, err := svc.Send(ctx, SendInput{Name: "Ana", Email: "ana@example.com", Body: "second"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if got := svc.UnreadCount(); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}

	read, err := svc.MarkRead(ctx, first.ID)
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !read.Read {
		t.Fatal("expected message marked read")
	}
	if got := svc.UnreadCount(); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	// Marking again changes nothing.
	if _, err := svc.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("repeated MarkRead returned error: %v", err)
	}
	if got := svc.UnreadCount(); got != 1 {
		t.Fatalf("expected unread count unchanged, got %d", got)
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.MarkRead(context.Background(), "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	msg, err := svc.Send(ctx, SendInput{Name: "João", Email: "joao@example.com", Body: "bye"})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if err := svc.Delete(ctx, msg.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := len(svc.List()); got != 0 {
		t.Fatalf("expected empty inbox, got %d", got)
	}
	if err := svc.Delete(ctx, msg.ID); err != nil {
		t.Fatalf("expected repeated delete to be a no-op, got %v", err)
	}
}
