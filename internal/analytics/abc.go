package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ABCInput is one product's valuation snapshot.
type ABCInput struct {
	ProductID   uint
	ProductCode string
	ProductName string
	OnHand      int64
	UnitCost    decimal.Decimal
}

type ABCItem struct {
	ProductID     uint            `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	OnHand        int64           `json:"on_hand"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ValuePct      float64         `json:"value_pct"`
	CumulativePct float64         `json:"cumulative_pct"`
	Category      string          `json:"category"`
}

// ClassifyABC ranks products by on-hand value and assigns Pareto tiers:
// a product is A while the value accumulated before it is under 80% of the
// total, B under 95%, C otherwise. Ties break by descending value then
// ascending product id, so the ordering is deterministic.
func ClassifyABC(inputs []ABCInput) []ABCItem {
	items := make([]ABCItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		value := in.UnitCost.Mul(decimal.NewFromInt(in.OnHand))
		items = append(items, ABCItem{
			ProductID:   in.ProductID,
			ProductCode: in.ProductCode,
			ProductName: in.ProductName,
			OnHand:      in.OnHand,
			UnitCost:    in.UnitCost,
			TotalValue:  value,
		})
		total = total.Add(value)
	}

	sort.SliceStable(items, func(i, j int) bool {
		cmp := items[i].TotalValue.Cmp(items[j].TotalValue)
		if cmp != 0 {
			return cmp > 0
		}
		return items[i].ProductID < items[j].ProductID
	})

	if total.IsZero() {
		for i := range items {
			items[i].Category = "C"
		}
		return items
	}

	cumulative := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i := range items {
		before, _ := cumulative.Mul(hundred).Div(total).Float64()
		cumulative = cumulative.Add(items[i].TotalValue)
		after, _ := cumulative.Mul(hundred).Div(total).Float64()

		items[i].ValuePct, _ = items[i].TotalValue.Mul(hundred).Div(total).Float64()
		items[i].CumulativePct = after

		switch {
		case before < 80:
			items[i].Category = "A"
		case before < 95:
			items[i].Category = "B"
		default:
			items[i].Category = "C"
		}
	}

	return items
}

// TopN returns the n highest-value items of a classification, the shape the
// dashboard's top-10 Pareto widget consumes.
func TopN(items []ABCItem, n int) []ABCItem {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
