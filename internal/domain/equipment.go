package domain

import (
	"time"

	"github.com/google/uuid"
)

type EquipmentStatus string

const (
	EquipmentActive   EquipmentStatus = "active"
	EquipmentInactive EquipmentStatus = "inactive"
	EquipmentRetired  EquipmentStatus = "retired"
)

func (s EquipmentStatus) IsValid() bool {
	switch s {
	case EquipmentActive, EquipmentInactive, EquipmentRetired:
		return true
	}
	return false
}

type Equipment struct {
	ID              uuid.UUID       `json:"id" db:"equipment_id"`
	Name            string          `json:"name" db:"name"`
	Location        *string         `json:"location,omitempty" db:"location"`
	Status          EquipmentStatus `json:"status" db:"status"`
	LastMaintenance *time.Time      `json:"last_maintenance,omitempty" db:"last_maintenance"`
	IntervalDays    int             `json:"interval_days" db:"interval_days"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// NextDue is the next cyclic due date, or nil when the equipment has never
// been maintained (such equipment is skipped by the reminder generator).
func (e *Equipment) NextDue() *time.Time {
	if e.LastMaintenance == nil {
		return nil
	}
	due := e.LastMaintenance.AddDate(0, 0, e.IntervalDays)
	return &due
}

type CreateEquipmentInput struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	IntervalDays int     `json:"interval_days" validate:"required,min=1"`
}

type UpdateEquipmentInput struct {
	Name         *string          `json:"name" validate:"omitempty,max=120"`
	Location     *string          `json:"location" validate:"omitempty,max=200"`
	Status       *EquipmentStatus `json:"status"`
	IntervalDays *int             `json:"interval_days" validate:"omitempty,min=1"`
}
