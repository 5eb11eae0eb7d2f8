package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/stylehub/internal/session"
	"github.com/wyfcoding/stylehub/internal/wishlist/domain"
)

type fakeWishlistRepo struct {
	entries  map[string][]string // userID -> product ids in insertion order
	failWith error
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{entries: make(map[string][]string)}
}

func (r *fakeWishlistRepo) ListByUser(_ context.Context, userID string) ([]domain.Entry, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]domain.Entry, 0, len(r.entries[userID]))
	for _, id := range r.entries[userID] {
		out = append(out, domain.Entry{ProductID: id, Title: "Product " + id})
	}
	return out, nil
}

func (r *fakeWishlistRepo) Exists(_ context.Context, userID, productID string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	for _, id := range r.entries[userID] {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWishlistRepo) Insert(_ context.Context, userID, productID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.entries[userID] = append(r.entries[userID], productID)
	return nil
}

func (r *fakeWishlistRepo) Delete(_ context.Context, userID, productID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	list := r.entries[userID]
	for i, id := range list {
		if id == productID {
			r.entries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, _, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func anonymous() session.Visitor {
	return session.Visitor{GuestToken: "g1"}
}

func signedIn(id string) session.Visitor {
	return session.Visitor{User: &session.User{ID: id}}
}

func TestWishlistService(t *testing.T) {
	ctx := context.Background()

	newSvc := func() (*WishlistService, *fakeWishlistRepo, *recordingNotifier) {
		repo := newFakeWishlistRepo()
		notifier := &recordingNotifier{}
		return NewWishlistService(repo, Policy{RequireAuth: true}, notifier), repo, notifier
	}

	t.Run("anonymous mutations are rejected without changing state", func(t *testing.T) {
		svc, repo, _ := newSvc()

		if err := svc.Add(ctx, anonymous(), "p1"); !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if err := svc.Remove(ctx, anonymous(), "p1"); !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(repo.entries) != 0 {
			t.Fatalf("expected no mutations, got %v", repo.entries)
		}
	})

	t.Run("anonymous list requires sign in", func(t *testing.T) {
		svc, _, _ := newSvc()
		if _, err := svc.List(ctx, anonymous()); !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("anonymous contains is false without error", func(t *testing.T) {
		svc, _, _ := newSvc()
		contained, err := svc.Contains(ctx, anonymous(), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if contained {
			t.Fatal("expected false for anonymous visitor")
		}
	})

	t.Run("add is idempotent set membership", func(t *testing.T) {
		svc, repo, notifier := newSvc()

		if err := svc.Add(ctx, signedIn("u1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Add(ctx, signedIn("u1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(repo.entries["u1"]) != 1 {
			t.Fatalf("expected single entry, got %v", repo.entries["u1"])
		}
		// 重复收藏是静默空操作，只提示一次。
		if len(notifier.messages) != 1 || notifier.messages[0] != "Added to wishlist" {
			t.Fatalf("unexpected notifications: %v", notifier.messages)
		}
	})

	t.Run("remove of absent entry is a no-op", func(t *testing.T) {
		svc, repo, _ := newSvc()
		if err := svc.Remove(ctx, signedIn("u1"), "missing"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.entries["u1"]) != 0 {
			t.Fatalf("unexpected entries: %v", repo.entries["u1"])
		}
	})

	t.Run("contains reflects membership", func(t *testing.T) {
		svc, _, _ := newSvc()
		if err := svc.Add(ctx, signedIn("u1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		contained, err := svc.Contains(ctx, signedIn("u1"), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !contained {
			t.Fatal("expected p1 to be contained")
		}
		contained, err = svc.Contains(ctx, signedIn("u1"), "p2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if contained {
			t.Fatal("expected p2 to be absent")
		}
	})

	t.Run("repository failure notifies and surfaces error", func(t *testing.T) {
		svc, repo, notifier := newSvc()
		repo.failWith = errors.New("db down")

		if err := svc.Add(ctx, signedIn("u1"), "p1"); err == nil {
			t.Fatal("expected error")
		}
		if len(notifier.messages) != 1 || notifier.messages[0] != "Failed to update wishlist" {
			t.Fatalf("unexpected notifications: %v", notifier.messages)
		}
	})
}
