package db_models

type Account struct {
	BaseModel
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`
	Instrument   string
	Bio          string

	Contacts []EmergencyContact `gorm:"foreignKey:AccountID"`
	CheckIns []CheckIn          `gorm:"foreignKey:AccountID"`
}
