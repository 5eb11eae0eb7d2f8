package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
	"github.com/wyfcoding/stylehub/internal/session"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeCartRepo struct {
	rows     map[string]map[string]int // userID -> productID -> quantity
	order    map[string][]string       // insertion order per user
	catalog  map[string]domain.ProductInfo
	failWith error
	failList bool
}

func newFakeCartRepo(catalog map[string]domain.ProductInfo) *fakeCartRepo {
	return &fakeCartRepo{
		rows:    make(map[string]map[string]int),
		order:   make(map[string][]string),
		catalog: catalog,
	}
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID string) ([]domain.LineItem, error) {
	if r.failWith != nil && r.failList {
		return nil, r.failWith
	}
	items := make([]domain.LineItem, 0)
	for _, productID := range r.order[userID] {
		quantity, ok := r.rows[userID][productID]
		if !ok {
			continue
		}
		info := r.catalog[productID]
		items = append(items, domain.LineItem{
			ProductID: productID,
			Title:     info.Title,
			UnitPrice: info.UnitPrice,
			ImageURL:  info.ImageURL,
			Quantity:  quantity,
		})
	}
	return items, nil
}

func (r *fakeCartRepo) GetQuantity(_ context.Context, userID, productID string) (int, bool, error) {
	if r.failWith != nil && !r.failList {
		return 0, false, r.failWith
	}
	quantity, ok := r.rows[userID][productID]
	return quantity, ok, nil
}

func (r *fakeCartRepo) Insert(_ context.Context, userID, productID string, quantity int) error {
	if r.failWith != nil && !r.failList {
		return r.failWith
	}
	if r.rows[userID] == nil {
		r.rows[userID] = make(map[string]int)
	}
	r.rows[userID][productID] = quantity
	r.order[userID] = append(r.order[userID], productID)
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, userID, productID string, quantity int) error {
	if r.failWith != nil && !r.failList {
		return r.failWith
	}
	if _, ok := r.rows[userID][productID]; ok {
		r.rows[userID][productID] = quantity
	}
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID, productID string) error {
	if r.failWith != nil && !r.failList {
		return r.failWith
	}
	delete(r.rows[userID], productID)
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID string) error {
	if r.failWith != nil && !r.failList {
		return r.failWith
	}
	delete(r.rows, userID)
	delete(r.order, userID)
	return nil
}

type fakeGuestStore struct {
	payloads map[string][]byte
	failSet  error
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{payloads: make(map[string][]byte)}
}

func (s *fakeGuestStore) Get(_ context.Context, token string) ([]byte, error) {
	return s.payloads[token], nil
}

func (s *fakeGuestStore) Set(_ context.Context, token string, payload []byte) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.payloads[token] = payload
	return nil
}

func (s *fakeGuestStore) Delete(_ context.Context, token string) error {
	delete(s.payloads, token)
	return nil
}

type fakeProductReader struct {
	catalog map[string]domain.ProductInfo
}

func (r *fakeProductReader) Read(_ context.Context, productID string) (*domain.ProductInfo, error) {
	info, ok := r.catalog[productID]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &info, nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, _, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func (n *fakeNotifier) last() string {
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

type fakeEventPublisher struct {
	topics []string
}

func (p *fakeEventPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func testCatalog() map[string]domain.ProductInfo {
	return map[string]domain.ProductInfo{
		// p1 促销中：单价按促销价捕获。
		"p1": {ProductID: "p1", Title: "Linen Shirt", UnitPrice: dec("39.00"), ImageURL: "/img/p1.jpg"},
		"p2": {ProductID: "p2", Title: "Denim Jacket", UnitPrice: dec("120.00"), ImageURL: "/img/p2.jpg"},
	}
}

type harness struct {
	svc      *CartService
	repo     *fakeCartRepo
	guests   *fakeGuestStore
	notifier *fakeNotifier
	events   *fakeEventPublisher
}

func newHarness() *harness {
	catalog := testCatalog()
	repo := newFakeCartRepo(catalog)
	guests := newFakeGuestStore()
	notifier := &fakeNotifier{}
	events := &fakeEventPublisher{}
	svc := NewCartService(repo, guests, &fakeProductReader{catalog: catalog}, notifier, events)
	return &harness{svc: svc, repo: repo, guests: guests, notifier: notifier, events: events}
}

func guest(token string) session.Visitor {
	return session.Visitor{GuestToken: token}
}

func authed(id string) session.Visitor {
	return session.Visitor{User: &session.User{ID: id, Email: id + "@example.com"}}
}

func TestCartServiceAnonymous(t *testing.T) {
	ctx := context.Background()

	t.Run("add captures unit price at add time", func(t *testing.T) {
		h := newHarness()
		view, err := h.svc.AddItem(ctx, guest("g1"), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 1 || !view.Items[0].UnitPrice.Equal(dec("39.00")) {
			t.Fatalf("expected captured price 39.00, got %+v", view.Items)
		}

		// 价格捕获后目录变价不影响已有行。
		h.repo.catalog["p1"] = domain.ProductInfo{ProductID: "p1", Title: "Linen Shirt", UnitPrice: dec("59.00")}
		view, err = h.svc.Get(ctx, guest("g1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !view.Items[0].UnitPrice.Equal(dec("39.00")) {
			t.Fatalf("expected stored price 39.00, got %s", view.Items[0].UnitPrice)
		}
	})

	t.Run("repeated add increments single line", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, guest("g1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		view, err := h.svc.AddItem(ctx, guest("g1"), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
			t.Fatalf("expected single line qty 2, got %+v", view.Items)
		}
		if view.ItemCount != 2 || !view.Total.Equal(dec("78.00")) {
			t.Fatalf("expected count 2 total 78.00, got %d %s", view.ItemCount, view.Total)
		}
	})

	t.Run("set quantity below one removes line", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, guest("g1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		view, err := h.svc.SetQuantity(ctx, guest("g1"), "p1", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 0 {
			t.Fatalf("expected empty cart, got %+v", view.Items)
		}
	})

	t.Run("remove of absent item is a no-op", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, guest("g1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		view, err := h.svc.RemoveItem(ctx, guest("g1"), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 1 {
			t.Fatalf("expected 1 line, got %d", len(view.Items))
		}
	})

	t.Run("corrupt guest payload loads as empty cart", func(t *testing.T) {
		h := newHarness()
		h.guests.payloads["g1"] = []byte("{corrupt")

		view, err := h.svc.Get(ctx, guest("g1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 0 {
			t.Fatalf("expected empty cart, got %+v", view.Items)
		}
	})

	t.Run("store failure keeps confirmed view and notifies", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, guest("g1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		h.guests.failSet = errors.New("store unavailable")
		view, err := h.svc.SetQuantity(ctx, guest("g1"), "p1", 5)
		if err == nil {
			t.Fatal("expected error")
		}
		if view.Items[0].Quantity != 1 {
			t.Fatalf("expected rollback to quantity 1, got %d", view.Items[0].Quantity)
		}
		if h.notifier.last() != "Failed to update cart" {
			t.Fatalf("expected failure notification, got %q", h.notifier.last())
		}
	})
}

func TestCartServiceAuthenticated(t *testing.T) {
	ctx := context.Background()

	t.Run("add inserts then increments remote rows", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, authed("u1"), "p2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		view, err := h.svc.AddItem(ctx, authed("u1"), "p2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
			t.Fatalf("expected single line qty 2, got %+v", view.Items)
		}
		if h.repo.rows["u1"]["p2"] != 2 {
			t.Fatalf("expected remote quantity 2, got %d", h.repo.rows["u1"]["p2"])
		}
	})

	t.Run("remote failure rolls back to confirmed view", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, authed("u1"), "p2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		h.repo.failWith = errors.New("db down")
		view, err := h.svc.SetQuantity(ctx, authed("u1"), "p2", 7)
		if err == nil {
			t.Fatal("expected error")
		}
		if view.Items[0].Quantity != 1 {
			t.Fatalf("expected rollback to quantity 1, got %d", view.Items[0].Quantity)
		}
		if h.notifier.last() != "Failed to update cart" {
			t.Fatalf("expected failure notification, got %q", h.notifier.last())
		}

		h.repo.failWith = nil
		fresh, err := h.svc.Get(ctx, authed("u1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fresh.Items[0].Quantity != 1 {
			t.Fatalf("remote state changed despite failure: %+v", fresh.Items)
		}
	})

	t.Run("clear empties the cart and publishes event", func(t *testing.T) {
		h := newHarness()
		if _, err := h.svc.AddItem(ctx, authed("u1"), "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		view, err := h.svc.Clear(ctx, authed("u1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 0 || view.ItemCount != 0 {
			t.Fatalf("expected empty view, got %+v", view)
		}
		found := false
		for _, topic := range h.events.topics {
			if topic == domain.CartClearedEventType {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected cart cleared event, got %v", h.events.topics)
		}
	})
}

func TestMergeGuestCart(t *testing.T) {
	ctx := context.Background()
	user := session.User{ID: "u1", Email: "u1@example.com"}

	seedGuest := func(t *testing.T, h *harness, token string, items []domain.LineItem) {
		t.Helper()
		payload, err := domain.EncodeItems(items)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		h.guests.payloads[token] = payload
	}

	t.Run("local rows merge into remote with quantity accumulation", func(t *testing.T) {
		h := newHarness()
		// 远端已有 p1 x1。
		if err := h.repo.Insert(ctx, "u1", "p1", 1); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		seedGuest(t, h, "g1", []domain.LineItem{
			{ProductID: "p1", Title: "Linen Shirt", UnitPrice: dec("39.00"), Quantity: 2},
			{ProductID: "p2", Title: "Denim Jacket", UnitPrice: dec("120.00"), Quantity: 1},
		})

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.repo.rows["u1"]["p1"] != 3 {
			t.Fatalf("expected accumulated quantity 3, got %d", h.repo.rows["u1"]["p1"])
		}
		if h.repo.rows["u1"]["p2"] != 1 {
			t.Fatalf("expected inserted quantity 1, got %d", h.repo.rows["u1"]["p2"])
		}
		if view.ItemCount != 4 {
			t.Fatalf("expected item count 4, got %d", view.ItemCount)
		}
		if _, ok := h.guests.payloads["g1"]; ok {
			t.Fatal("guest key should be deleted after merge")
		}
		if len(h.notifier.messages) != 1 {
			t.Fatalf("expected exactly one notification, got %v", h.notifier.messages)
		}
	})

	t.Run("empty guest cart still deletes key and stays silent", func(t *testing.T) {
		h := newHarness()
		h.guests.payloads["g1"] = []byte("[]")

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 0 {
			t.Fatalf("expected empty view, got %+v", view.Items)
		}
		if _, ok := h.guests.payloads["g1"]; ok {
			t.Fatal("guest key should be deleted even when empty")
		}
		if len(h.notifier.messages) != 0 {
			t.Fatalf("expected no notification, got %v", h.notifier.messages)
		}
		if len(h.events.topics) != 0 {
			t.Fatalf("expected no events, got %v", h.events.topics)
		}
	})

	t.Run("repeat sign-in without new local data changes nothing", func(t *testing.T) {
		h := newHarness()
		seedGuest(t, h, "g1", []domain.LineItem{
			{ProductID: "p1", UnitPrice: dec("39.00"), Quantity: 2},
		})
		if _, err := h.svc.MergeGuestCart(ctx, "g1", user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.repo.rows["u1"]["p1"] != 2 {
			t.Fatalf("second merge changed remote state: %d", h.repo.rows["u1"]["p1"])
		}
		if view.ItemCount != 2 {
			t.Fatalf("expected item count 2, got %d", view.ItemCount)
		}
		if len(h.notifier.messages) != 1 {
			t.Fatalf("expected single notification across merges, got %v", h.notifier.messages)
		}
	})

	t.Run("unparseable guest payload merges as empty", func(t *testing.T) {
		h := newHarness()
		h.guests.payloads["g1"] = []byte("{broken")

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 0 {
			t.Fatalf("expected empty view, got %+v", view.Items)
		}
		if _, ok := h.guests.payloads["g1"]; ok {
			t.Fatal("guest key should be deleted")
		}
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		h := newHarness()
		seedGuest(t, h, "g1", []domain.LineItem{
			{ProductID: "", Quantity: 2},
			{ProductID: "p1", Quantity: 0},
			{ProductID: "p2", UnitPrice: dec("120.00"), Quantity: 1},
		})

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Items) != 1 || view.Items[0].ProductID != "p2" {
			t.Fatalf("expected only p2 migrated, got %+v", view.Items)
		}
	})

	t.Run("post-merge fetch failure returns merged view with error", func(t *testing.T) {
		h := newHarness()
		seedGuest(t, h, "g1", []domain.LineItem{
			{ProductID: "p1", UnitPrice: dec("39.00"), Quantity: 2},
		})
		h.repo.failWith = errors.New("db read down")
		h.repo.failList = true

		view, err := h.svc.MergeGuestCart(ctx, "g1", user)
		if err == nil {
			t.Fatal("expected error")
		}
		if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
			t.Fatalf("expected in-memory merged view, got %+v", view.Items)
		}
		// 迁移已经落库，游客键已删除。
		if h.repo.rows["u1"]["p1"] != 2 {
			t.Fatalf("expected migrated rows to persist, got %d", h.repo.rows["u1"]["p1"])
		}
		if _, ok := h.guests.payloads["g1"]; ok {
			t.Fatal("guest key should be deleted")
		}
	})

	t.Run("merge publishes cart merged event", func(t *testing.T) {
		h := newHarness()
		seedGuest(t, h, "g1", []domain.LineItem{
			{ProductID: "p1", UnitPrice: dec("39.00"), Quantity: 1},
		})
		if _, err := h.svc.MergeGuestCart(ctx, "g1", user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.events.topics) != 1 || h.events.topics[0] != domain.CartMergedEventType {
			t.Fatalf("expected cart merged event, got %v", h.events.topics)
		}
	})
}
