package domain

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled MaintenanceStatus = "scheduled"
	MaintenanceCompleted MaintenanceStatus = "completed"
	MaintenanceCancelled MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

// ScheduledMaintenance is a one-off maintenance event planned for a target
// date, as opposed to the cyclic maintenance inferred from an equipment's
// interval. EquipmentName is denormalized so reminders and listings do not
// need a join.
type ScheduledMaintenance struct {
	ID            uuid.UUID         `json:"id" db:"maintenance_id"`
	EquipmentID   uuid.UUID         `json:"equipment_id" db:"equipment_id"`
	EquipmentName string            `json:"equipment_name" db:"equipment_name"`
	Description   *string           `json:"description,omitempty" db:"description"`
	Status        MaintenanceStatus `json:"status" db:"status"`
	ScheduledAt   time.Time         `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CreatedBy     uuid.UUID         `json:"created_by" db:"created_by"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

type CreateMaintenanceInput struct {
	EquipmentID uuid.UUID `json:"equipment_id" validate:"required"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// MaintenanceReport documents a performed maintenance, optionally with an
// attachment (photo, signed checklist) stored in object storage.
type MaintenanceReport struct {
	ID             uuid.UUID `json:"id" db:"report_id"`
	EquipmentID    uuid.UUID `json:"equipment_id" db:"equipment_id"`
	AuthorID       uuid.UUID `json:"author_id" db:"author_id"`
	Summary        string    `json:"summary" db:"summary"`
	AttachmentPath *string   `json:"-" db:"attachment_path"`
	AttachmentURL  string    `json:"attachment_url,omitempty" db:"-"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
