package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"warehouse-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog appends an audit record inside the caller's transaction so the
// trail commits or rolls back together with the transition it describes.
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	// jsonb columns need "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}
