package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

func newMessageSvc(store *stubStore) ports.MessageService {
	return NewMessageService(store, zerolog.Nop())
}

func TestMessageService_Post(t *testing.T) {
	store := newStubStore()
	ctx := context.Background()
	u := seedUser(t, store, "testuser")
	svc := newMessageSvc(store)

	before := time.Now().Add(-time.Second)
	m, err := svc.Post(ctx, u.ID, "text")
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if m.Text != "text" || m.UserID != u.ID || m.ID == 0 {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.Timestamp.Before(before) {
		t.Fatalf("expected timestamp defaulted to now, got %v", m.Timestamp)
	}

	msgs, _ := svc.ListByUser(ctx, "testuser")
	if len(msgs) != 1 || msgs[0].ID != m.ID || msgs[0].User == nil {
		t.Fatalf("message not in user's collection: %v", msgs)
	}
}

func TestMessageService_Post_Violations(t *testing.T) {
	store := newStubStore()
	ctx := context.Background()
	u := seedUser(t, store, "testuser")
	svc := newMessageSvc(store)

	if _, err := svc.Post(ctx, u.ID, strings.Repeat("a", domain.MaxMessageLength+1)); !domain.IsViolation(err, domain.ViolationCheck) {
		t.Fatalf("expected check violation, got %v", err)
	}
	if _, err := svc.Post(ctx, 999, "orphan"); !domain.IsViolation(err, domain.ViolationForeignKey) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
	if _, err := svc.Post(ctx, u.ID, strings.Repeat("é", domain.MaxMessageLength)); err != nil {
		t.Fatalf("140 runes should be accepted, got %v", err)
	}
}

func TestMessageService_Get(t *testing.T) {
	store := newStubStore()
	ctx := context.Background()
	u := seedUser(t, store, "testuser")
	svc := newMessageSvc(store)

	m, _ := svc.Post(ctx, u.ID, "hello")
	got, err := svc.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.User == nil || got.User.Username != "testuser" {
		t.Fatalf("expected owner loaded, got %+v", got.User)
	}
	if _, err := svc.Get(ctx, 12345); err != domain.ErrMessageNotFound {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestMessageService_Delete_OwnerOnly(t *testing.T) {
	store := newStubStore()
	ctx := context.Background()
	owner := seedUser(t, store, "owner")
	other := seedUser(t, store, "other")
	svc := newMessageSvc(store)

	m, _ := svc.Post(ctx, owner.ID, "mine")

	if err := svc.Delete(ctx, other.ID, m.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner.ID, m.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, owner.ID, m.ID); err != domain.ErrMessageNotFound {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestMessageService_Timeline(t *testing.T) {
	store := newStubStore()
	ctx := context.Background()
	me := seedUser(t, store, "me")
	friend := seedUser(t, store, "friend")
	stranger := seedUser(t, store, "stranger")
	svc := newMessageSvc(store)

	_ = NewUserService(store, plainHasher{}, zerolog.Nop()).Follow(ctx, me.ID, "friend")

	first, _ := svc.Post(ctx, me.ID, "first")
	_, _ = svc.Post(ctx, stranger.ID, "noise")
	second, _ := svc.Post(ctx, friend.ID, "second")

	msgs, err := svc.Timeline(ctx, me.ID, 0)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != second.ID || msgs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", msgs[0].ID, msgs[1].ID)
	}
	if msgs[0].User == nil || msgs[0].User.Username != "friend" {
		t.Fatalf("expected author loaded, got %+v", msgs[0].User)
	}

	limited, _ := svc.Timeline(ctx, me.ID, 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}
