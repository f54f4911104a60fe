package models

import "time"

type Warehouse struct {
	ID            uint   `gorm:"primaryKey"`
	Code          string `gorm:"size:50;uniqueIndex;not null"`
	Name          string `gorm:"size:150;not null"`
	Address       string `gorm:"size:255"`
	CapacityLimit int64  `gorm:"not null;default:0"` // max units the location can hold; 0 = unlimited
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
