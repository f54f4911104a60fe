package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one row of the append-only stock movement journal.
// Entries are immutable once written; a correction is a new entry.
type LedgerEntry struct {
	ID              uint `gorm:"primaryKey"`
	ProductID       uint `gorm:"not null;index:idx_ledger_product_warehouse,priority:1"`
	Product         Product
	WarehouseID     uint `gorm:"not null;index:idx_ledger_product_warehouse,priority:2"`
	Warehouse       Warehouse
	VoucherNo       string          `gorm:"size:50;index;not null"`
	OffsetVoucherNo string          `gorm:"size:50"` // counter-party voucher (e.g. the export a return refers to)
	Unit            string          `gorm:"size:20"`
	QuantityIn      int64           `gorm:"not null;default:0"`
	QuantityOut     int64           `gorm:"not null;default:0"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EntryDate       time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time
}
