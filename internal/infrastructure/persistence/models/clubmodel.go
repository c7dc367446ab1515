package models

import (
	"github.com/servis-automat/servis/internal/shared/constants"
)

type ClubModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;uniqueIndex"`
	City      string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (ClubModel) TableName() string {
	return constants.TableClubs
}

// MachineModel is a gaming machine installed in a club. Number is unique per club.
type MachineModel struct {
	ID        uint   `gorm:"primaryKey"`
	ClubID    uint   `gorm:"not null;uniqueIndex:idx_machines_club_number"`
	Number    string `gorm:"size:50;not null;uniqueIndex:idx_machines_club_number"`
	Model     string `gorm:"size:100"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (MachineModel) TableName() string {
	return constants.TableMachines
}
