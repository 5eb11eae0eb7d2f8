package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCart(t *testing.T) {
	t.Run("add keeps product ids unique", func(t *testing.T) {
		cart := Cart{}
		cart.Add(LineItem{ProductID: "p1", UnitPrice: dec("10")})
		cart.Add(LineItem{ProductID: "p1", UnitPrice: dec("10")})
		cart.Add(LineItem{ProductID: "p2", UnitPrice: dec("5")})

		if len(cart.Items) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(cart.Items))
		}
		if cart.Items[0].Quantity != 2 {
			t.Fatalf("expected quantity 2, got %d", cart.Items[0].Quantity)
		}
	})

	t.Run("total and item count are recomputed", func(t *testing.T) {
		cart := Cart{Items: []LineItem{
			{ProductID: "p1", UnitPrice: dec("10.50"), Quantity: 2},
			{ProductID: "p2", UnitPrice: dec("3.25"), Quantity: 3},
		}}
		if !cart.Total().Equal(dec("30.75")) {
			t.Fatalf("expected total 30.75, got %s", cart.Total())
		}
		if cart.ItemCount() != 5 {
			t.Fatalf("expected 5 items, got %d", cart.ItemCount())
		}

		cart.SetQuantity("p2", 1)
		if !cart.Total().Equal(dec("24.25")) {
			t.Fatalf("expected total 24.25 after update, got %s", cart.Total())
		}
	})

	t.Run("remove of absent id is a no-op", func(t *testing.T) {
		cart := Cart{Items: []LineItem{{ProductID: "p1", Quantity: 1}}}
		cart.Remove("missing")
		if len(cart.Items) != 1 {
			t.Fatalf("expected 1 line, got %d", len(cart.Items))
		}
	})

	t.Run("set quantity below one removes the line", func(t *testing.T) {
		cart := Cart{Items: []LineItem{{ProductID: "p1", Quantity: 3}}}
		cart.SetQuantity("p1", 0)
		if len(cart.Items) != 0 {
			t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
		}
	})

	t.Run("no upper quantity bound", func(t *testing.T) {
		cart := Cart{Items: []LineItem{{ProductID: "p1", Quantity: 1}}}
		cart.SetQuantity("p1", 100000)
		if cart.Items[0].Quantity != 100000 {
			t.Fatalf("expected 100000, got %d", cart.Items[0].Quantity)
		}
	})
}

func TestDecodeItems(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := []LineItem{{ProductID: "p1", Title: "Shirt", UnitPrice: dec("12.00"), Quantity: 2}}
		payload, err := EncodeItems(in)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		out, err := DecodeItems(payload)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(out) != 1 || out[0].ProductID != "p1" || out[0].Quantity != 2 || !out[0].UnitPrice.Equal(dec("12.00")) {
			t.Fatalf("unexpected round trip result: %+v", out)
		}
	})

	t.Run("empty payload is an empty cart", func(t *testing.T) {
		out, err := DecodeItems(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("expected empty, got %d", len(out))
		}
	})

	t.Run("corrupt payload yields empty cart with error", func(t *testing.T) {
		out, err := DecodeItems([]byte("{not json"))
		if err == nil {
			t.Fatal("expected decode error")
		}
		if len(out) != 0 {
			t.Fatalf("expected empty, got %d", len(out))
		}
	})
}
