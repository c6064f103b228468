package db_models

import "github.com/google/uuid"

// EmergencyContact is a person nominated by an account to receive session
// alerts for its in-person meetups.
type EmergencyContact struct {
	BaseModel
	AccountID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Phone       string    `gorm:"not null"`
	Email       string
	AlertsOptIn bool `gorm:"not null;default:false"`

	Account Account `gorm:"foreignKey:AccountID"`
}
