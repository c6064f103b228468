package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"musicjam/internal/models/db_models"
	"musicjam/internal/models/request_models"
	"musicjam/pkg/utils"
)

type fakeContactRepo struct {
	mu       sync.Mutex
	contacts []db_models.EmergencyContact
}

func (r *fakeContactRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.EmergencyContact
	for _, c := range r.contacts {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) FindByID(ctx context.Context, accountID, id uuid.UUID) (*db_models.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == id && r.contacts[i].AccountID == accountID {
			c := r.contacts[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]db_models.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.EmergencyContact
	for _, id := range ids {
		for _, c := range r.contacts {
			if c.ID == id && c.AccountID == accountID {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Insert(ctx context.Context, contact *db_models.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *fakeContactRepo) Update(ctx context.Context, contact *db_models.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == contact.ID {
			r.contacts[i] = *contact
			return nil
		}
	}
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == id && r.contacts[i].AccountID == accountID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestCreateContactValidation(t *testing.T) {
	svc := NewContactService(&fakeContactRepo{})
	ctx := context.Background()
	accountID := uuid.New()

	tests := []struct {
		name    string
		request request_models.ContactRequest
	}{
		{"missing name", request_models.ContactRequest{Phone: "+15550100"}},
		{"missing phone", request_models.ContactRequest{Name: "Dana"}},
		{"blank name", request_models.ContactRequest{Name: "   ", Phone: "+15550100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateContact(ctx, accountID, tt.request); !errors.Is(err, utils.ErrInvalidInput) {
				t.Fatalf("CreateContact error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestContactCRUD(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo)
	ctx := context.Background()
	accountID := uuid.New()

	created, err := svc.CreateContact(ctx, accountID, request_models.ContactRequest{
		Name:        "Dana",
		Phone:       "+15550100",
		Email:       "dana@example.com",
		AlertsOptIn: true,
	})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	id, err := uuid.Parse(created.ID)
	if err != nil {
		t.Fatalf("created contact id is not a uuid: %v", err)
	}

	list, err := svc.ListContacts(ctx, accountID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListContacts = %v, %v; want one contact", list, err)
	}

	if err := svc.UpdateContact(ctx, accountID, id, request_models.ContactRequest{
		Name:  "Dana R.",
		Phone: "+15550199",
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	list, _ = svc.ListContacts(ctx, accountID)
	if list[0].Name != "Dana R." || list[0].AlertsOptIn {
		t.Errorf("update not applied: %+v", list[0])
	}

	if err := svc.DeleteContact(ctx, accountID, id); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if err := svc.DeleteContact(ctx, accountID, id); !errors.Is(err, utils.ErrContactNotFound) {
		t.Errorf("second delete error = %v, want ErrContactNotFound", err)
	}
}

func TestContactOwnershipScoping(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.CreateContact(ctx, owner, request_models.ContactRequest{Name: "Dana", Phone: "+15550100"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	id := uuid.MustParse(created.ID)

	if err := svc.UpdateContact(ctx, intruder, id, request_models.ContactRequest{Name: "X", Phone: "0"}); !errors.Is(err, utils.ErrContactNotFound) {
		t.Errorf("cross-account update error = %v, want ErrContactNotFound", err)
	}
	if err := svc.DeleteContact(ctx, intruder, id); !errors.Is(err, utils.ErrContactNotFound) {
		t.Errorf("cross-account delete error = %v, want ErrContactNotFound", err)
	}
}

func TestResolveContacts(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo)
	ctx := context.Background()
	accountID := uuid.New()

	first, _ := svc.CreateContact(ctx, accountID, request_models.ContactRequest{Name: "Dana", Phone: "+15550100"})
	second, _ := svc.CreateContact(ctx, accountID, request_models.ContactRequest{Name: "Sam", Phone: "+15550101"})
	firstID := uuid.MustParse(first.ID)
	secondID := uuid.MustParse(second.ID)

	resolved, err := svc.ResolveContacts(ctx, accountID, []uuid.UUID{secondID, firstID})
	if err != nil {
		t.Fatalf("ResolveContacts: %v", err)
	}
	if len(resolved) != 2 || resolved[0].ID != secondID || resolved[1].ID != firstID {
		t.Errorf("contacts not in request order: %+v", resolved)
	}

	if _, err := svc.ResolveContacts(ctx, accountID, []uuid.UUID{firstID, uuid.New()}); !errors.Is(err, utils.ErrContactNotFound) {
		t.Errorf("unknown id error = %v, want ErrContactNotFound", err)
	}
	if _, err := svc.ResolveContacts(ctx, uuid.New(), []uuid.UUID{firstID}); !errors.Is(err, utils.ErrContactNotFound) {
		t.Errorf("foreign account error = %v, want ErrContactNotFound", err)
	}

	if resolved, err := svc.ResolveContacts(ctx, accountID, nil); err != nil || resolved != nil {
		t.Errorf("empty id list = %v, %v; want nil, nil", resolved, err)
	}
}
