package analytics

import "sort"

// WarehouseLoad is one location's capacity snapshot.
type WarehouseLoad struct {
	WarehouseID     uint    `json:"warehouse_id"`
	WarehouseName   string  `json:"warehouse_name"`
	CapacityLimit   int64   `json:"capacity_limit"`
	TotalQuantity   int64   `json:"total_quantity"`
	CapacityUsedPct float64 `json:"capacity_used_pct"`
	IsOverloaded    bool    `json:"is_overloaded"`
	IsUnderUtilized bool    `json:"is_under_utilized"`
}

type TransferSuggestion struct {
	FromWarehouseID   uint   `json:"from_warehouse_id"`
	FromWarehouseName string `json:"from_warehouse_name"`
	ToWarehouseID     uint   `json:"to_warehouse_id"`
	ToWarehouseName   string `json:"to_warehouse_name"`
	Quantity          int64  `json:"quantity"`
}

type CapacityBalance struct {
	Warehouses  []WarehouseLoad      `json:"warehouses"`
	Suggestions []TransferSuggestion `json:"suggestions"`
}

const (
	overloadedPct    = 90.0
	underUtilizedPct = 25.0
)

// BalanceCapacity computes per-location utilization and pairs overloaded
// locations' excess against under-utilized ones' free room, greedily from
// the largest excess. Excess and free room are both measured against the
// 90% line so a suggested transfer cannot overload the receiver. Locations
// with no capacity limit are reported but never flagged or paired.
func BalanceCapacity(loads []WarehouseLoad) CapacityBalance {
	out := CapacityBalance{Warehouses: make([]WarehouseLoad, len(loads)), Suggestions: make([]TransferSuggestion, 0)}
	copy(out.Warehouses, loads)

	type side struct {
		idx  int
		room int64
	}
	var overloaded, receivers []side

	for i := range out.Warehouses {
		w := &out.Warehouses[i]
		if w.CapacityLimit <= 0 {
			continue
		}
		w.CapacityUsedPct = float64(w.TotalQuantity) / float64(w.CapacityLimit) * 100
		w.IsOverloaded = w.CapacityUsedPct >= overloadedPct
		w.IsUnderUtilized = w.CapacityUsedPct <= underUtilizedPct

		threshold := int64(float64(w.CapacityLimit) * overloadedPct / 100)
		if w.IsOverloaded {
			if excess := w.TotalQuantity - threshold; excess > 0 {
				overloaded = append(overloaded, side{idx: i, room: excess})
			}
		} else if w.IsUnderUtilized {
			if free := threshold - w.TotalQuantity; free > 0 {
				receivers = append(receivers, side{idx: i, room: free})
			}
		}
	}

	sort.Slice(overloaded, func(i, j int) bool {
		if overloaded[i].room != overloaded[j].room {
			return overloaded[i].room > overloaded[j].room
		}
		return out.Warehouses[overloaded[i].idx].WarehouseID < out.Warehouses[overloaded[j].idx].WarehouseID
	})
	sort.Slice(receivers, func(i, j int) bool {
		if receivers[i].room != receivers[j].room {
			return receivers[i].room > receivers[j].room
		}
		return out.Warehouses[receivers[i].idx].WarehouseID < out.Warehouses[receivers[j].idx].WarehouseID
	})

	for o := range overloaded {
		for r := range receivers {
			if overloaded[o].room == 0 {
				break
			}
			if receivers[r].room == 0 {
				continue
			}
			qty := overloaded[o].room
			if qty > receivers[r].room {
				qty = receivers[r].room
			}
			out.Suggestions = append(out.Suggestions, TransferSuggestion{
				FromWarehouseID:   out.Warehouses[overloaded[o].idx].WarehouseID,
				FromWarehouseName: out.Warehouses[overloaded[o].idx].WarehouseName,
				ToWarehouseID:     out.Warehouses[receivers[r].idx].WarehouseID,
				ToWarehouseName:   out.Warehouses[receivers[r].idx].WarehouseName,
				Quantity:          qty,
			})
			overloaded[o].room -= qty
			receivers[r].room -= qty
		}
	}

	return out
}
