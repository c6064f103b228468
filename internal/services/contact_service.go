package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"musicjam/internal/models/db_models"
	"musicjam/internal/models/request_models"
	"musicjam/internal/models/response_models"
	"musicjam/internal/repositories"
	"musicjam/pkg/utils"
)

type ContactServiceInterface interface {
	ListContacts(ctx context.Context, accountID uuid.UUID) ([]response_models.ContactResponse, error)
	CreateContact(ctx context.Context, accountID uuid.UUID, request request_models.ContactRequest) (*response_models.ContactResponse, error)
	UpdateContact(ctx context.Context, accountID, id uuid.UUID, request request_models.ContactRequest) error
	DeleteContact(ctx context.Context, accountID, id uuid.UUID) error
	ResolveContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]db_models.EmergencyContact, error)
}

type ContactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactServiceInterface {
	return &ContactService{contactRepo: contactRepo}
}

func (s *ContactService) ListContacts(ctx context.Context, accountID uuid.UUID) ([]response_models.ContactResponse, error) {
	contacts, err := s.contactRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, buildContactResponse(c))
	}
	return out, nil
}

func (s *ContactService) CreateContact(ctx context.Context, accountID uuid.UUID, request request_models.ContactRequest) (*response_models.ContactResponse, error) {
	if strings.TrimSpace(request.Name) == "" || strings.TrimSpace(request.Phone) == "" {
		return nil, utils.ErrInvalidInput
	}

	contact := &db_models.EmergencyContact{
		AccountID:   accountID,
		Name:        request.Name,
		Phone:       request.Phone,
		Email:       request.Email,
		AlertsOptIn: request.AlertsOptIn,
	}
	if err := s.contactRepo.Insert(ctx, contact); err != nil {
		return nil, utils.ErrDatabaseError
	}

	resp := buildContactResponse(*contact)
	return &resp, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, accountID, id uuid.UUID, request request_models.ContactRequest) error {
	contact, err := s.contactRepo.FindByID(ctx, accountID, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if contact == nil {
		return utils.ErrContactNotFound
	}

	contact.Name = request.Name
	contact.Phone = request.Phone
	contact.Email = request.Email
	contact.AlertsOptIn = request.AlertsOptIn
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *ContactService) DeleteContact(ctx context.Context, accountID, id uuid.UUID) error {
	contact, err := s.contactRepo.FindByID(ctx, accountID, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if contact == nil {
		return utils.ErrContactNotFound
	}
	if err := s.contactRepo.Delete(ctx, accountID, id); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// ResolveContacts loads the caller's contacts for a schedule request, in
// request order. Every id must belong to the caller and exist.
func (s *ContactService) ResolveContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]db_models.EmergencyContact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	contacts, err := s.contactRepo.FindByIDs(ctx, accountID, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(contacts) != len(ids) {
		return nil, utils.ErrContactNotFound
	}
	return contacts, nil
}

func buildContactResponse(c db_models.EmergencyContact) response_models.ContactResponse {
	return response_models.ContactResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		AlertsOptIn: c.AlertsOptIn,
	}
}
