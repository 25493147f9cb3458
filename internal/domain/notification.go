package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification is a per-user maintenance reminder. For a given user at most
// one notification may exist per (equipment, event date) pair; NotificationKey
// computes the dedup key enforcing that.
type Notification struct {
	ID          uuid.UUID  `json:"id" db:"notification_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	EquipmentID uuid.UUID  `json:"equipment_id" db:"equipment_id"`
	Message     string     `json:"message" db:"message"`
	EventDate   time.Time  `json:"event_date" db:"event_date"`
	IsRead      bool       `json:"is_read" db:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func NotificationKey(equipmentID uuid.UUID, eventDate time.Time) string {
	return fmt.Sprintf("%s_%s", equipmentID, eventDate.Format("2006-01-02"))
}

func (n *Notification) Key() string {
	return NotificationKey(n.EquipmentID, n.EventDate)
}

// FeedUpdate is one delivery of the live notification feed: the full ordered
// list plus the unread count recomputed from it.
type FeedUpdate struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}
