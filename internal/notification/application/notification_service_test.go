package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/stylehub/internal/notification/domain"
)

type fakeNotificationRepo struct {
	saved []*domain.Notification
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	for i, existing := range r.saved {
		if existing.NotificationID == n.NotificationID {
			cp := *n
			r.saved[i] = &cp
			return nil
		}
	}
	cp := *n
	r.saved = append(r.saved, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListByUserKey(_ context.Context, userKey string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.saved {
		if n.UserKey == userKey && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(_ context.Context, _, _, content string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, content)
	return nil
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	t.Run("successful dispatch marks record sent", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		sndr := &fakeSender{}
		svc := NewNotificationService(repo, sndr)

		if err := svc.Notify(ctx, "user:u1", "Added to cart"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.saved) != 1 {
			t.Fatalf("expected 1 record, got %d", len(repo.saved))
		}
		if repo.saved[0].Status != domain.StatusSent || repo.saved[0].SentAt == nil {
			t.Fatalf("expected SENT with timestamp, got %+v", repo.saved[0])
		}
		if len(sndr.sent) != 1 || sndr.sent[0] != "Added to cart" {
			t.Fatalf("unexpected dispatches: %v", sndr.sent)
		}
	})

	t.Run("dispatch failure marks record failed without propagating", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := NewNotificationService(repo, &fakeSender{err: errors.New("broker down")})

		if err := svc.Notify(ctx, "user:u1", "Added to cart"); err != nil {
			t.Fatalf("send errors must not propagate, got %v", err)
		}
		if len(repo.saved) != 1 {
			t.Fatalf("expected 1 record, got %d", len(repo.saved))
		}
		if repo.saved[0].Status != domain.StatusFailed || repo.saved[0].ErrorMessage == "" {
			t.Fatalf("expected FAILED with message, got %+v", repo.saved[0])
		}
	})

	t.Run("history is scoped to the user key", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := NewNotificationService(repo, &fakeSender{})

		if err := svc.Notify(ctx, "user:u1", "one"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Notify(ctx, "user:u2", "two"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		history, err := svc.History(ctx, "user:u1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 1 || history[0].Content != "one" {
			t.Fatalf("unexpected history: %+v", history)
		}
	})
}
