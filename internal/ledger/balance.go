package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"warehouse-backend/internal/models"
)

// BalancePoint is one row of the running-balance projection: the entry plus
// the cumulative stock and value after applying it.
type BalancePoint struct {
	Entry        models.LedgerEntry
	RunningStock int64
	RunningValue decimal.Decimal
	// IssueCost is the total cost the costing strategy assigned to an
	// outbound entry; zero for inbound entries.
	IssueCost decimal.Decimal
}

// NegativeStockWarning flags a point where the running stock dropped below
// zero. It is an annotation, not an error: the projection stays valid, but
// upstream data entry (or a concurrent over-export) needs attention.
type NegativeStockWarning struct {
	ProductID    uint   `json:"product_id"`
	WarehouseID  uint   `json:"warehouse_id"`
	VoucherNo    string `json:"voucher_no"`
	RunningStock int64  `json:"running_stock"`
}

func (w NegativeStockWarning) String() string {
	return fmt.Sprintf("negative stock %d for product %d after voucher %s", w.RunningStock, w.ProductID, w.VoucherNo)
}

// RunningBalance is the full fold of one goods' ledger slice.
type RunningBalance struct {
	Points   []BalancePoint
	Warnings []NegativeStockWarning
}

// Fold replays entries in the order given (callers must pass them in
// voucher/date order) and computes the running stock and value. The
// projection is recomputed fresh per query and never cached across
// mutations.
func Fold(entries []models.LedgerEntry, newStrategy StrategyFactory) RunningBalance {
	strategy := newStrategy()
	out := RunningBalance{Points: make([]BalancePoint, 0, len(entries))}

	var stock int64
	for _, e := range entries {
		point := BalancePoint{Entry: e, IssueCost: decimal.Zero}

		if e.QuantityIn > 0 {
			strategy.Receive(e.QuantityIn, e.UnitCost)
			stock += e.QuantityIn
		}
		if e.QuantityOut > 0 {
			point.IssueCost = strategy.Issue(e.QuantityOut)
			stock -= e.QuantityOut
		}

		point.RunningStock = stock
		point.RunningValue = strategy.Value()
		out.Points = append(out.Points, point)

		if stock < 0 {
			out.Warnings = append(out.Warnings, NegativeStockWarning{
				ProductID:    e.ProductID,
				WarehouseID:  e.WarehouseID,
				VoucherNo:    e.VoucherNo,
				RunningStock: stock,
			})
		}
	}

	return out
}
