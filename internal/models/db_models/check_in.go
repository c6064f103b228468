package db_models

import (
	"time"

	"github.com/google/uuid"
)

type CheckInStatus string

const (
	CheckInStatusScheduled CheckInStatus = "scheduled"
	CheckInStatusActive    CheckInStatus = "active"
	CheckInStatusCompleted CheckInStatus = "completed"
	CheckInStatusCancelled CheckInStatus = "cancelled"
	CheckInStatusEmergency CheckInStatus = "emergency"
)

// Terminal reports whether no further transitions are permitted from s.
// Emergency is terminal for user actions but the record stays in the active
// collection for monitoring visibility.
func (s CheckInStatus) Terminal() bool {
	switch s {
	case CheckInStatusCompleted, CheckInStatusCancelled, CheckInStatusEmergency:
		return true
	}
	return false
}

// CheckIn is one planned in-person meetup under safety monitoring.
// Everything except Status, ActivatedAt and CompletedAt is immutable after
// creation.
type CheckIn struct {
	BaseModel
	AccountID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	CounterpartID   uuid.UUID     `gorm:"type:uuid;not null"`
	CounterpartName string        `gorm:"not null"`
	Location        string        `gorm:"not null"`
	ScheduledAt     time.Time     `gorm:"not null"`
	Deadline        time.Time     `gorm:"not null"`
	Status          CheckInStatus `gorm:"type:varchar(16);not null;default:'scheduled';index"`
	ActivatedAt     *time.Time
	CompletedAt     *time.Time

	Contacts []EmergencyContact `gorm:"many2many:check_in_contacts"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}
