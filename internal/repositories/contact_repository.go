package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musicjam/internal/models/db_models"
)

type ContactRepository interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.EmergencyContact, error)
	FindByID(ctx context.Context, accountID, id uuid.UUID) (*db_models.EmergencyContact, error)
	FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]db_models.EmergencyContact, error)
	Insert(ctx context.Context, contact *db_models.EmergencyContact) error
	Update(ctx context.Context, contact *db_models.EmergencyContact) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.EmergencyContact, error) {
	var contacts []db_models.EmergencyContact
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at asc").
		Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) FindByID(ctx context.Context, accountID, id uuid.UUID) (*db_models.EmergencyContact, error) {
	var contact db_models.EmergencyContact
	err := r.db.WithContext(ctx).
		First(&contact, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// FindByIDs returns contacts belonging to accountID in the order of ids.
// IDs without a matching contact are skipped.
func (r *contactRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]db_models.EmergencyContact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contacts []db_models.EmergencyContact
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]db_models.EmergencyContact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	ordered := make([]db_models.EmergencyContact, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *contactRepository) Insert(ctx context.Context, contact *db_models.EmergencyContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *db_models.EmergencyContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&db_models.EmergencyContact{}).Error
}
