package filter

import (
	"testing"

	"github.com/wfarner/vinylalert/internal/model"
)

func priced(id, value string) model.Listing {
	return model.Listing{
		ID:    id,
		Price: model.Price{Money: model.Money{Value: dec(value), Currency: "EUR"}},
	}
}

func TestSelectBest_LowestTotal(t *testing.T) {
	listings := []model.Listing{
		priced("a", "20"),
		priced("b", "18"),
		priced("c", "19"),
	}

	best, ok := SelectBest(listings)
	if !ok {
		t.Fatal("SelectBest should find a listing")
	}
	if best.ID != "b" {
		t.Errorf("best = %q, want b (18 EUR)", best.ID)
	}
}

func TestSelectBest_ShippingCountsTowardTotal(t *testing.T) {
	cheap := priced("cheap", "18")
	cheap.Price.Shipping = &model.Money{Value: dec("10"), Currency: "EUR"}

	flat := priced("flat", "20")

	best, ok := SelectBest([]model.Listing{cheap, flat})
	if !ok {
		t.Fatal("SelectBest should find a listing")
	}
	if best.ID != "flat" {
		t.Errorf("best = %q, want flat (20 vs 28 total)", best.ID)
	}
}

func TestSelectBest_TieKeepsScrapeOrder(t *testing.T) {
	best, ok := SelectBest([]model.Listing{
		priced("first", "18"),
		priced("second", "18"),
	})
	if !ok {
		t.Fatal("SelectBest should find a listing")
	}
	if best.ID != "first" {
		t.Errorf("best = %q, tie should keep the first-seen listing", best.ID)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	if _, ok := SelectBest(nil); ok {
		t.Error("SelectBest of no listings should report none found")
	}
}
