package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestClassifyABCParetoTiers(t *testing.T) {
	// top three hold 81% of the value; all three must still be A because the
	// value accumulated before each of them is under the 80% line
	inputs := []ABCInput{
		{ProductID: 1, ProductCode: "G1", OnHand: 1, UnitCost: d(400000)},
		{ProductID: 2, ProductCode: "G2", OnHand: 1, UnitCost: d(250000)},
		{ProductID: 3, ProductCode: "G3", OnHand: 1, UnitCost: d(160000)},
		{ProductID: 4, ProductCode: "G4", OnHand: 1, UnitCost: d(100000)},
		{ProductID: 5, ProductCode: "G5", OnHand: 1, UnitCost: d(60000)},
		{ProductID: 6, ProductCode: "G6", OnHand: 1, UnitCost: d(30000)},
	}

	items := ClassifyABC(inputs)
	if len(items) != 6 {
		t.Fatalf("items = %d, want 6", len(items))
	}

	wantCats := []string{"A", "A", "A", "B", "B", "C"}
	for i, want := range wantCats {
		if items[i].Category != want {
			t.Fatalf("rank %d (%s, cum %.1f%%): category %s, want %s",
				i+1, items[i].ProductCode, items[i].CumulativePct, items[i].Category, want)
		}
	}

	if items[0].ProductID != 1 || items[5].ProductID != 6 {
		t.Fatalf("ordering broken: first %d last %d", items[0].ProductID, items[5].ProductID)
	}
	if items[2].CumulativePct < 80.9 || items[2].CumulativePct > 81.1 {
		t.Fatalf("cumulative at rank 3 = %.2f, want ~81", items[2].CumulativePct)
	}
}

func TestClassifyABCZeroTotal(t *testing.T) {
	items := ClassifyABC([]ABCInput{
		{ProductID: 1, OnHand: 0, UnitCost: d(100)},
		{ProductID: 2, OnHand: 5, UnitCost: d(0)},
	})
	for _, it := range items {
		if it.Category != "C" {
			t.Fatalf("product %d: category %s, want C for zero-value stock", it.ProductID, it.Category)
		}
	}
}

func TestClassifyABCTieBreaksByProductID(t *testing.T) {
	items := ClassifyABC([]ABCInput{
		{ProductID: 9, OnHand: 1, UnitCost: d(100)},
		{ProductID: 3, OnHand: 1, UnitCost: d(100)},
	})
	if items[0].ProductID != 3 || items[1].ProductID != 9 {
		t.Fatalf("tie order = %d,%d, want 3,9", items[0].ProductID, items[1].ProductID)
	}
}

func TestTopN(t *testing.T) {
	items := ClassifyABC([]ABCInput{
		{ProductID: 1, OnHand: 1, UnitCost: d(300)},
		{ProductID: 2, OnHand: 1, UnitCost: d(200)},
		{ProductID: 3, OnHand: 1, UnitCost: d(100)},
	})
	top := TopN(items, 2)
	if len(top) != 2 || top[0].ProductID != 1 || top[1].ProductID != 2 {
		t.Fatalf("top 2 = %+v", top)
	}
	if got := TopN(items, 10); len(got) != 3 {
		t.Fatalf("topN larger than input = %d items, want 3", len(got))
	}
}
