package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherTypeReceipt VoucherType = "receipt" // goods received (import)
	VoucherTypeSale    VoucherType = "sale"    // goods issued (export)
	VoucherTypeReturn  VoucherType = "return"
)

// Voucher is the postable accounting document produced when an order
// completes. Its lines are what the ledger entries reference.
type Voucher struct {
	ID            uint          `gorm:"primaryKey"`
	VoucherNo     string        `gorm:"size:50;uniqueIndex;not null"`
	Type          VoucherType   `gorm:"size:20;not null"`
	OrderID       uint          `gorm:"index;not null"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null"`
	GoodsTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time

	Lines []VoucherLine `gorm:"foreignKey:VoucherID;constraint:OnDelete:CASCADE"`
}

type VoucherLine struct {
	ID            uint `gorm:"primaryKey"`
	VoucherID     uint `gorm:"index;not null"`
	ProductID     uint `gorm:"index;not null"`
	Quantity      int64           `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATRate       int             `gorm:"not null"`
	Promotion     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountExclVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"` // quantity*unitPrice - promotion
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DebitAccount  string          `gorm:"size:10;not null"`
	CreditAccount string          `gorm:"size:10;not null"`
	CreatedAt     time.Time
}
