package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"musicjam/internal/models/db_models"
	"musicjam/internal/models/request_models"
	"musicjam/internal/models/response_models"
	"musicjam/internal/services"
	"musicjam/pkg/utils"
)

type CheckInController struct {
	manager        services.CheckInManagerInterface
	contactService services.ContactServiceInterface
}

func NewCheckInController(
	manager services.CheckInManagerInterface,
	contactService services.ContactServiceInterface,
) *CheckInController {
	return &CheckInController{
		manager:        manager,
		contactService: contactService,
	}
}

// ScheduleCheckIn godoc
// @Summary Schedule a safety check-in for an upcoming session
// @Tags CheckIns
// @Accept json
// @Produce json
// @Param request body request_models.ScheduleCheckInRequest true "Counterpart, location, times, contact ids"
// @Success 201 {object} response_models.CheckInResponse
// @Security BearerAuth
// @Router /check-ins [post]
func (cc *CheckInController) ScheduleCheckIn(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	var req request_models.ScheduleCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Counterpart, location, meeting time and deadline are required")
		return
	}

	counterpartID, err := uuid.Parse(req.CounterpartID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid counterpart ID")
		return
	}

	contactIDs := make([]uuid.UUID, 0, len(req.ContactIDs))
	for _, raw := range req.ContactIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid contact ID")
			return
		}
		contactIDs = append(contactIDs, id)
	}

	contacts, err := cc.contactService.ResolveContacts(c.Request.Context(), accountID, contactIDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	checkIn, err := cc.manager.Schedule(c.Request.Context(), services.ScheduleCheckInInput{
		AccountID:       accountID,
		CounterpartID:   counterpartID,
		CounterpartName: req.CounterpartName,
		Location:        req.Location,
		ScheduledAt:     req.ScheduledAt,
		Deadline:        req.Deadline,
		Contacts:        contacts,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, buildCheckInResponse(*checkIn), "Check-in scheduled successfully")
}

// StartCheckIn godoc
// @Summary Activate a scheduled check-in when the session begins
// @Tags CheckIns
// @Produce json
// @Param id path string true "Check-in ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /check-ins/{id}/start [post]
func (cc *CheckInController) StartCheckIn(c *gin.Context) {
	cc.transition(c, cc.manager.Start, "Check-in started successfully")
}

// CompleteCheckIn godoc
// @Summary Mark an active check-in as safely completed
// @Tags CheckIns
// @Produce json
// @Param id path string true "Check-in ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /check-ins/{id}/complete [post]
func (cc *CheckInController) CompleteCheckIn(c *gin.Context) {
	cc.transition(c, cc.manager.Complete, "Check-in completed successfully")
}

// CancelCheckIn godoc
// @Summary Cancel a scheduled or active check-in
// @Tags CheckIns
// @Produce json
// @Param id path string true "Check-in ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /check-ins/{id}/cancel [post]
func (cc *CheckInController) CancelCheckIn(c *gin.Context) {
	cc.transition(c, cc.manager.Cancel, "Check-in cancelled")
}

// TriggerEmergency godoc
// @Summary Trigger an emergency alert for an active check-in
// @Tags CheckIns
// @Produce json
// @Param id path string true "Check-in ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /check-ins/{id}/emergency [post]
func (cc *CheckInController) TriggerEmergency(c *gin.Context) {
	cc.transition(c, cc.manager.TriggerEmergency, "Emergency alert sent")
}

// ListScheduled godoc
// @Summary List the caller's scheduled check-ins
// @Tags CheckIns
// @Produce json
// @Success 200 {array} response_models.CheckInResponse
// @Security BearerAuth
// @Router /check-ins/scheduled [get]
func (cc *CheckInController) ListScheduled(c *gin.Context) {
	cc.list(c, cc.manager.Scheduled)
}

// ListActive godoc
// @Summary List the caller's active check-ins (including emergencies)
// @Tags CheckIns
// @Produce json
// @Success 200 {array} response_models.CheckInResponse
// @Security BearerAuth
// @Router /check-ins/active [get]
func (cc *CheckInController) ListActive(c *gin.Context) {
	cc.list(c, cc.manager.Active)
}

// ListHistory godoc
// @Summary List the caller's past check-ins, most recent first
// @Tags CheckIns
// @Produce json
// @Success 200 {array} response_models.CheckInResponse
// @Security BearerAuth
// @Router /check-ins/history [get]
func (cc *CheckInController) ListHistory(c *gin.Context) {
	cc.list(c, cc.manager.History)
}

// Status godoc
// @Summary Monitoring status for the caller
// @Tags CheckIns
// @Produce json
// @Success 200 {object} response_models.CheckInStatusResponse
// @Security BearerAuth
// @Router /check-ins/status [get]
func (cc *CheckInController) Status(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	utils.RespondSuccess(c, response_models.CheckInStatusResponse{
		HasActive: cc.manager.HasActive(),
		Scheduled: len(cc.manager.Scheduled(accountID)),
		Active:    len(cc.manager.Active(accountID)),
	}, "Status fetched successfully")
}

func (cc *CheckInController) transition(c *gin.Context, op func(ctx context.Context, accountID, id uuid.UUID) error, message string) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid check-in ID")
		return
	}

	if err := op(c.Request.Context(), accountID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, message)
}

func (cc *CheckInController) list(c *gin.Context, snapshot func(accountID uuid.UUID) []db_models.CheckIn) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	records := snapshot(accountID)
	out := make([]response_models.CheckInResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, buildCheckInResponse(rec))
	}
	utils.RespondSuccess(c, out, "Check-ins fetched successfully")
}

func buildCheckInResponse(rec db_models.CheckIn) response_models.CheckInResponse {
	contacts := make([]response_models.ContactResponse, 0, len(rec.Contacts))
	for _, contact := range rec.Contacts {
		contacts = append(contacts, response_models.ContactResponse{
			ID:          contact.ID.String(),
			Name:        contact.Name,
			Phone:       contact.Phone,
			Email:       contact.Email,
			AlertsOptIn: contact.AlertsOptIn,
		})
	}
	return response_models.CheckInResponse{
		ID:              rec.ID.String(),
		CounterpartID:   rec.CounterpartID.String(),
		CounterpartName: rec.CounterpartName,
		Location:        rec.Location,
		ScheduledAt:     utils.FormatRFC3339(rec.ScheduledAt),
		Deadline:        utils.FormatRFC3339(rec.Deadline),
		Status:          string(rec.Status),
		ActivatedAt:     utils.FormatRFC3339Ptr(rec.ActivatedAt),
		CompletedAt:     utils.FormatRFC3339Ptr(rec.CompletedAt),
		Contacts:        contacts,
	}
}
