package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"musicjam/internal/models/db_models"
	"musicjam/internal/repositories"
)

// Notifier is the external alerting collaborator of the check-in lifecycle
// manager. All methods are best-effort: implementations isolate per-contact
// failures and callers log, never propagate, returned errors.
//
// The check-in value is a snapshot taken at call time; implementations must
// not assume it reflects later state.
type Notifier interface {
	ScheduleReminder(ctx context.Context, checkIn db_models.CheckIn) error
	NotifyContacts(ctx context.Context, checkIn db_models.CheckIn, message string) error
	SendEmergencyAlert(ctx context.Context, checkIn db_models.CheckIn) error
}

type mailNotifier struct {
	mail        IMailService
	accountRepo repositories.AccountRepository
	log         *zap.SugaredLogger
}

func NewMailNotifier(mail IMailService, accountRepo repositories.AccountRepository, log *zap.SugaredLogger) Notifier {
	return &mailNotifier{
		mail:        mail,
		accountRepo: accountRepo,
		log:         log,
	}
}

// ScheduleReminder mails the session owner about the upcoming check-in.
func (n *mailNotifier) ScheduleReminder(ctx context.Context, checkIn db_models.CheckIn) error {
	account, err := n.accountRepo.FindById(ctx, checkIn.AccountID.String())
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("reminder: owner account %s not found", checkIn.AccountID)
	}

	subject := "Upcoming jam session check-in"
	body := fmt.Sprintf(
		"You have a session with %s at %s scheduled for %s. Remember to check in by %s.",
		checkIn.CounterpartName, checkIn.Location,
		checkIn.ScheduledAt.Format("Mon Jan 2 15:04"),
		checkIn.Deadline.Format("15:04"),
	)
	return n.mail.SendMail(account.Email, subject, body)
}

// NotifyContacts mails every opted-in contact. One contact's failure does not
// stop delivery to the rest; failures are logged here and a nil error is
// returned so state transitions never hinge on delivery.
func (n *mailNotifier) NotifyContacts(ctx context.Context, checkIn db_models.CheckIn, message string) error {
	for _, contact := range checkIn.Contacts {
		if !contact.AlertsOptIn || contact.Email == "" {
			continue
		}
		subject := fmt.Sprintf("Session update for %s", checkIn.CounterpartName)
		if err := n.mail.SendMail(contact.Email, subject, message); err != nil {
			n.log.Warnw("contact notification failed",
				"check_in_id", checkIn.ID,
				"contact_id", contact.ID,
				"error", err)
		}
	}
	return nil
}

// SendEmergencyAlert mails every contact with an email address, opted in or
// not. Emergencies override the opt-in preference.
func (n *mailNotifier) SendEmergencyAlert(ctx context.Context, checkIn db_models.CheckIn) error {
	subject := "EMERGENCY: missed safety check-in"
	body := fmt.Sprintf(
		"%s did not check in after a session with %s at %s (meeting time %s, check-in deadline %s). Please try to reach them now.",
		ownerLabel(ctx, n.accountRepo, checkIn),
		checkIn.CounterpartName,
		checkIn.Location,
		checkIn.ScheduledAt.Format("Mon Jan 2 15:04"),
		checkIn.Deadline.Format("Mon Jan 2 15:04"),
	)

	for _, contact := range checkIn.Contacts {
		if contact.Email == "" {
			continue
		}
		if err := n.mail.SendMail(contact.Email, subject, body); err != nil {
			n.log.Errorw("emergency alert delivery failed",
				"check_in_id", checkIn.ID,
				"contact_id", contact.ID,
				"error", err)
		}
	}
	return nil
}

func ownerLabel(ctx context.Context, repo repositories.AccountRepository, checkIn db_models.CheckIn) string {
	account, err := repo.FindById(ctx, checkIn.AccountID.String())
	if err != nil || account == nil {
		return "Your contact"
	}
	return account.Name
}
