package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"musicjam/internal/models/request_models"
	"musicjam/internal/services"
	"musicjam/pkg/utils"
)

type ContactController struct {
	contactService services.ContactServiceInterface
}

func NewContactController(contactService services.ContactServiceInterface) *ContactController {
	return &ContactController{contactService: contactService}
}

// ListContacts godoc
// @Summary List the caller's emergency contacts
// @Tags Contacts
// @Produce json
// @Success 200 {array} response_models.ContactResponse
// @Security BearerAuth
// @Router /contacts [get]
func (cc *ContactController) ListContacts(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	contacts, err := cc.contactService.ListContacts(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, contacts, "Contacts fetched successfully")
}

// CreateContact godoc
// @Summary Add an emergency contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body request_models.ContactRequest true "Name, phone, optional email, opt-in flag"
// @Success 201 {object} response_models.ContactResponse
// @Security BearerAuth
// @Router /contacts [post]
func (cc *ContactController) CreateContact(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name and phone are required")
		return
	}

	contact, err := cc.contactService.CreateContact(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, contact, "Contact created successfully")
}

// UpdateContact godoc
// @Summary Update an emergency contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body request_models.ContactRequest true "Name, phone, optional email, opt-in flag"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (cc *ContactController) UpdateContact(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name and phone are required")
		return
	}

	if err := cc.contactService.UpdateContact(c.Request.Context(), accountID, id, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Contact updated successfully")
}

// DeleteContact godoc
// @Summary Remove an emergency contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (cc *ContactController) DeleteContact(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := cc.contactService.DeleteContact(c.Request.Context(), accountID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Contact deleted successfully")
}

// callerID pulls the authenticated account id set by the JWT middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid authentication context")
		return uuid.Nil, false
	}
	return id, true
}
