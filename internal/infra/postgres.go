package infra

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"musicjam/internal/models/db_models"
	"musicjam/pkg/utils"
)

func InitPostgresql() *gorm.DB {
	dsn := os.Getenv("POSTGRES_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		utils.Sugar().Fatalw("error connecting to database", "error", err)
	}

	if err := db.AutoMigrate(
		&db_models.Account{},
		&db_models.EmergencyContact{},
		&db_models.CheckIn{},
	); err != nil {
		utils.Sugar().Fatalw("error migrating schema", "error", err)
	}

	return db
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		utils.Sugar().Errorw("error getting database instance", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.Sugar().Errorw("error closing database connection", "error", err)
	}
}
