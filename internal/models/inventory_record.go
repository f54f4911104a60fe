package models

import "time"

// InventoryRecord holds the quantity buckets for one (product, warehouse) pair.
// Mutated only by the order lifecycle engine; rows are zeroed, never deleted,
// so ledger traceability is preserved.
type InventoryRecord struct {
	ID          uint `gorm:"primaryKey"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_inventory_product_warehouse,priority:1"`
	Product     Product
	WarehouseID uint `gorm:"not null;uniqueIndex:idx_inventory_product_warehouse,priority:2"`
	Warehouse   Warehouse
	Available   int64 `gorm:"not null;default:0"`
	Allocated   int64 `gorm:"not null;default:0"` // reserved by approved, not yet completed exports
	Damaged     int64 `gorm:"not null;default:0"`
	InTransit   int64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalStock is the physical quantity on site, regardless of bucket.
func (r *InventoryRecord) TotalStock() int64 {
	return r.Available + r.Allocated + r.Damaged + r.InTransit
}
