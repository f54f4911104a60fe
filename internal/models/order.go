package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeImport OrderType = "import"
	OrderTypeExport OrderType = "export"
	OrderTypeReturn OrderType = "return"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected || s == OrderStatusCancelled
}

// Disposition of a return line: back to sellable stock or scrapped.
type Disposition string

const (
	DispositionRestock Disposition = "restock"
	DispositionScrap   Disposition = "scrap"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentBank   PaymentMethod = "BANK"
	PaymentUnpaid PaymentMethod = "UNPAID"
)

type Order struct {
	ID            uint        `gorm:"primaryKey"`
	Code          string      `gorm:"size:50;uniqueIndex;not null"` // e.g. "EXP-5f3a..."
	Type          OrderType   `gorm:"size:20;index;not null"`
	Status        OrderStatus `gorm:"size:20;index;not null"`
	PartnerID     uint        `gorm:"index"` // provider (import) or customer (export/return)
	PartnerName   string      `gorm:"size:150"`
	WarehouseID   uint `gorm:"index;not null"`
	Warehouse     Warehouse
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:CASH"`
	Note          string        `gorm:"size:255"`
	RejectReason  string        `gorm:"size:255"`
	CreatedBy     uint          `gorm:"not null"`
	ApprovedBy    *uint
	ApprovedAt    *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID              uint `gorm:"primaryKey"`
	OrderID         uint `gorm:"index;not null"`
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATRate         int             `gorm:"not null;default:0"` // percent: 0, 5, 7 or 10
	Promotion       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Disposition     Disposition     `gorm:"size:20"` // return lines only
	ExpiryDate      *time.Time      // import lines: batch expiry
	OffsetVoucherNo string          `gorm:"size:50"` // return lines: the export voucher being returned against
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
