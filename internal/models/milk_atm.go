package models

import "time"

// MilkAtm: a milk dispensing machine. Never hard-deleted, entries keep pointing at it.
type MilkAtm struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Location  string `gorm:"size:255"`
	IsActive  bool   `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
