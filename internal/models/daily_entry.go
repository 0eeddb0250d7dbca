package models

import "time"

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// DailyEntry: one shift's record for one machine on one day.
// AtmID 0 is the implicit machine of legacy single-machine rows.
type DailyEntry struct {
	ID    uint      `gorm:"primaryKey"`
	Date  time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_entries_identity,priority:1"`
	AtmID uint      `gorm:"not null;default:0;uniqueIndex:idx_daily_entries_identity,priority:2"`
	Atm   *MilkAtm  `gorm:"foreignKey:AtmID"`
	Shift Shift     `gorm:"size:10;not null;default:morning;uniqueIndex:idx_daily_entries_identity,priority:3"`

	TotalMilk       float64 `gorm:"not null;default:0"` // loaded into the machine
	DistributedMilk float64 `gorm:"not null;default:0"` // sum of method liters
	LeftoverMilk    float64 `gorm:"not null;default:0"`

	CashLiters            float64 `gorm:"not null;default:0"`
	Cash                  float64 `gorm:"not null;default:0"`
	UpiLiters             float64 `gorm:"not null;default:0"`
	Upi                   float64 `gorm:"not null;default:0"`
	CardLiters            float64 `gorm:"not null;default:0"`
	Card                  float64 `gorm:"not null;default:0"`
	UdhaarPermanentLiters float64 `gorm:"not null;default:0"`
	UdhaarPermanent       float64 `gorm:"not null;default:0"`
	UdhaarTemporaryLiters float64 `gorm:"not null;default:0"`
	UdhaarTemporary       float64 `gorm:"not null;default:0"`
	OthersLiters          float64 `gorm:"not null;default:0"`
	Others                float64 `gorm:"not null;default:0"`

	TotalAmount float64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
