package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch tracks one received lot of a product for expiry (FEFO) purposes.
// Created when an import order completes; exports consume batches in
// earliest-expiry-first order.
type StockBatch struct {
	ID          uint `gorm:"primaryKey"`
	ProductID   uint `gorm:"not null;index:idx_batch_product_warehouse,priority:1"`
	Product     Product
	WarehouseID uint `gorm:"not null;index:idx_batch_product_warehouse,priority:2"`
	Warehouse   Warehouse
	BatchNo     string          `gorm:"size:50;index;not null"`
	Quantity    int64           `gorm:"not null"` // remaining quantity in the batch
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiryDate  *time.Time      `gorm:"index"`
	ReceivedAt  time.Time       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
