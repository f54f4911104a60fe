package ledger

import (
	"github.com/shopspring/decimal"

	"warehouse-backend/internal/config"
)

// CostingStrategy values the stock consumed by outbound movements. A fresh
// strategy is constructed per fold; implementations are stateful and not
// safe for concurrent use.
type CostingStrategy interface {
	Name() string
	// Receive records an inbound movement at a fixed unit cost.
	Receive(qty int64, unitCost decimal.Decimal)
	// Issue consumes qty units and returns the total cost assigned to them.
	Issue(qty int64) decimal.Decimal
	// Value returns the current total value of the remaining stock.
	Value() decimal.Decimal
}

// StrategyFactory builds a fresh strategy for one fold.
type StrategyFactory func() CostingStrategy

// FactoryFor maps a configured costing method name to its factory.
func FactoryFor(method string) StrategyFactory {
	if method == config.CostingFIFO {
		return NewFIFO
	}
	return NewWeightedAverage
}

type weightedAverage struct {
	qty   int64
	value decimal.Decimal
}

// NewWeightedAverage returns the default strategy: every issue is valued at
// the current average cost of the stock on hand.
func NewWeightedAverage() CostingStrategy {
	return &weightedAverage{value: decimal.Zero}
}

func (w *weightedAverage) Name() string { return config.CostingWeightedAverage }

func (w *weightedAverage) Receive(qty int64, unitCost decimal.Decimal) {
	w.qty += qty
	w.value = w.value.Add(unitCost.Mul(decimal.NewFromInt(qty)))
}

func (w *weightedAverage) Issue(qty int64) decimal.Decimal {
	if w.qty <= 0 {
		// issuing from empty or negative stock carries no cost; the fold
		// reports the negative balance separately
		w.qty -= qty
		return decimal.Zero
	}
	unit := w.value.Div(decimal.NewFromInt(w.qty))
	issued := qty
	if issued > w.qty {
		issued = w.qty
	}
	cost := unit.Mul(decimal.NewFromInt(issued))
	w.qty -= qty
	w.value = w.value.Sub(cost)
	if w.qty <= 0 {
		w.value = decimal.Zero
	}
	return cost
}

func (w *weightedAverage) Value() decimal.Decimal { return w.value }

type fifoLayer struct {
	qty      int64
	unitCost decimal.Decimal
}

type fifo struct {
	layers []fifoLayer
	short  int64 // units issued without a covering layer
}

// NewFIFO returns the first-in-first-out strategy: issues consume the oldest
// receipt layers at their original cost.
func NewFIFO() CostingStrategy {
	return &fifo{}
}

func (f *fifo) Name() string { return config.CostingFIFO }

func (f *fifo) Receive(qty int64, unitCost decimal.Decimal) {
	// a receipt first covers any prior over-issue, at no additional cost
	if f.short > 0 {
		covered := qty
		if covered > f.short {
			covered = f.short
		}
		f.short -= covered
		qty -= covered
	}
	if qty > 0 {
		f.layers = append(f.layers, fifoLayer{qty: qty, unitCost: unitCost})
	}
}

func (f *fifo) Issue(qty int64) decimal.Decimal {
	cost := decimal.Zero
	for qty > 0 && len(f.layers) > 0 {
		layer := &f.layers[0]
		take := qty
		if take > layer.qty {
			take = layer.qty
		}
		cost = cost.Add(layer.unitCost.Mul(decimal.NewFromInt(take)))
		layer.qty -= take
		qty -= take
		if layer.qty == 0 {
			f.layers = f.layers[1:]
		}
	}
	f.short += qty
	return cost
}

func (f *fifo) Value() decimal.Decimal {
	v := decimal.Zero
	for _, layer := range f.layers {
		v = v.Add(layer.unitCost.Mul(decimal.NewFromInt(layer.qty)))
	}
	return v
}
