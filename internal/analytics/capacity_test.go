package analytics

import "testing"

func TestBalanceCapacityFlags(t *testing.T) {
	out := BalanceCapacity([]WarehouseLoad{
		{WarehouseID: 1, CapacityLimit: 1000, TotalQuantity: 900}, // exactly 90%: overloaded
		{WarehouseID: 2, CapacityLimit: 1000, TotalQuantity: 899},
		{WarehouseID: 3, CapacityLimit: 1000, TotalQuantity: 250}, // exactly 25%: under-utilized
		{WarehouseID: 4, CapacityLimit: 1000, TotalQuantity: 251},
		{WarehouseID: 5, CapacityLimit: 0, TotalQuantity: 500}, // no limit configured
	})

	byID := map[uint]WarehouseLoad{}
	for _, w := range out.Warehouses {
		byID[w.WarehouseID] = w
	}

	if !byID[1].IsOverloaded || byID[2].IsOverloaded {
		t.Fatalf("overload boundary: w1=%v w2=%v", byID[1].IsOverloaded, byID[2].IsOverloaded)
	}
	if !byID[3].IsUnderUtilized || byID[4].IsUnderUtilized {
		t.Fatalf("under-utilization boundary: w3=%v w4=%v", byID[3].IsUnderUtilized, byID[4].IsUnderUtilized)
	}
	if byID[5].IsOverloaded || byID[5].IsUnderUtilized || byID[5].CapacityUsedPct != 0 {
		t.Fatalf("no-limit warehouse must stay unflagged: %+v", byID[5])
	}
}

func TestBalanceCapacitySuggestions(t *testing.T) {
	out := BalanceCapacity([]WarehouseLoad{
		{WarehouseID: 1, WarehouseName: "Central", CapacityLimit: 1000, TotalQuantity: 980}, // 80 over the 90% line
		{WarehouseID: 2, WarehouseName: "North", CapacityLimit: 1000, TotalQuantity: 100},   // 800 free below it
	})

	if len(out.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(out.Suggestions))
	}
	s := out.Suggestions[0]
	if s.FromWarehouseID != 1 || s.ToWarehouseID != 2 || s.Quantity != 80 {
		t.Fatalf("suggestion = %+v, want 80 units from 1 to 2", s)
	}
}

func TestBalanceCapacityGreedyLargestExcessFirst(t *testing.T) {
	out := BalanceCapacity([]WarehouseLoad{
		{WarehouseID: 1, CapacityLimit: 1000, TotalQuantity: 1000}, // 100 excess
		{WarehouseID: 2, CapacityLimit: 1000, TotalQuantity: 950},  // 50 excess
		{WarehouseID: 3, CapacityLimit: 1000, TotalQuantity: 830},  // receiver with 70 room... not under-utilized
		{WarehouseID: 4, CapacityLimit: 1000, TotalQuantity: 200},  // receiver with 700 room
	})

	// warehouse 3 is neither overloaded nor under-utilized so only 4 receives
	if len(out.Suggestions) != 2 {
		t.Fatalf("suggestions = %+v, want 2", out.Suggestions)
	}
	first, second := out.Suggestions[0], out.Suggestions[1]
	if first.FromWarehouseID != 1 || first.Quantity != 100 {
		t.Fatalf("first suggestion = %+v, want 100 from warehouse 1", first)
	}
	if second.FromWarehouseID != 2 || second.Quantity != 50 || second.ToWarehouseID != 4 {
		t.Fatalf("second suggestion = %+v, want 50 from warehouse 2 to 4", second)
	}
}

func TestBalanceCapacityNoPairsWithoutReceivers(t *testing.T) {
	out := BalanceCapacity([]WarehouseLoad{
		{WarehouseID: 1, CapacityLimit: 100, TotalQuantity: 99},
		{WarehouseID: 2, CapacityLimit: 100, TotalQuantity: 95},
	})
	if len(out.Suggestions) != 0 {
		t.Fatalf("suggestions = %+v, want none when every warehouse is loaded", out.Suggestions)
	}
}
