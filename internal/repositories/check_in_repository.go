package repositories

import (
	"context"

	"gorm.io/gorm"

	"musicjam/internal/models/db_models"
)

// CheckInRepository is the durability collaborator for the check-in lifecycle
// manager. The manager owns the in-memory state; this layer only mirrors it.
type CheckInRepository interface {
	// LoadAll returns the three logical collections: scheduled, active
	// (including emergency records, which stay under monitoring), and
	// historical (most-recent-first).
	LoadAll(ctx context.Context) (scheduled, active, historical []*db_models.CheckIn, err error)
	Insert(ctx context.Context, checkIn *db_models.CheckIn) error
	Update(ctx context.Context, checkIn *db_models.CheckIn) error
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) LoadAll(ctx context.Context) ([]*db_models.CheckIn, []*db_models.CheckIn, []*db_models.CheckIn, error) {
	var all []*db_models.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Order("updated_at desc").
		Find(&all).Error
	if err != nil {
		return nil, nil, nil, err
	}

	var scheduled, active, historical []*db_models.CheckIn
	for _, c := range all {
		switch c.Status {
		case db_models.CheckInStatusScheduled:
			scheduled = append(scheduled, c)
		case db_models.CheckInStatusActive, db_models.CheckInStatusEmergency:
			active = append(active, c)
		default:
			historical = append(historical, c)
		}
	}
	return scheduled, active, historical, nil
}

func (r *checkInRepository) Insert(ctx context.Context, checkIn *db_models.CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) Update(ctx context.Context, checkIn *db_models.CheckIn) error {
	// Contacts are immutable after creation, only lifecycle fields change.
	return r.db.WithContext(ctx).Omit("Contacts").Save(checkIn).Error
}
