package models

import "time"

type Product struct {
	ID             uint   `gorm:"primaryKey"`
	Code           string `gorm:"size:50;uniqueIndex;not null"` // stock code, e.g. "G1"
	Name           string `gorm:"size:150;not null"`
	Unit           string `gorm:"size:20;not null"` // pcs, box, kg
	Category       string `gorm:"size:100;index"`
	MinStock       int64  `gorm:"not null;default:0"` // below this an alert is raised
	DefaultVATRate int    `gorm:"not null;default:10"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
