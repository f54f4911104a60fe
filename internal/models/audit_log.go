package models

import "time"

type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionApprove  AuditAction = "approve"
	AuditActionReject   AuditAction = "reject"
	AuditActionComplete AuditAction = "complete"
	AuditActionCancel   AuditAction = "cancel"
	AuditActionDelete   AuditAction = "delete"
)

// AuditLog records every order transition. There is no undo here: the
// ledger is append-only, so a mistaken transition is corrected by a
// counter-movement, not by rewriting history.
type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint   `gorm:"not null"`
	UserName string `gorm:"size:100"` // denormalized actor name

	// Which entity? (e.g. "order", "product", "warehouse")
	EntityType string `gorm:"size:50;index"`
	EntityID   uint   `gorm:"index"`

	Action      AuditAction `gorm:"size:20"`
	Description string      `gorm:"size:255"`

	// State before and after the transition (JSON)
	BeforeData string `gorm:"type:jsonb"`
	AfterData  string `gorm:"type:jsonb"`
}
