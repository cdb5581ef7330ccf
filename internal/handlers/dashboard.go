package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/models"
	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/response"
)

// DashboardHandler serves the authenticated client portal: profile,
// contracts, notifications and chat.
type DashboardHandler struct {
	leads         *services.LeadService
	contracts     *services.ContractService
	notifications *services.NotificationService
	chat          *services.ChatService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(
	leads *services.LeadService,
	contracts *services.ContractService,
	notifications *services.NotificationService,
	chat *services.ChatService,
) *DashboardHandler {
	return &DashboardHandler{
		leads:         leads,
		contracts:     contracts,
		notifications: notifications,
		chat:          chat,
	}
}

// DashboardData bundles everything the portal landing view needs in one call.
func (h *DashboardHandler) DashboardData(c *gin.Context) {
	email, err := currentEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	lead, err := h.leads.FindByEmail(ctx, email)
	if err != nil {
		response.Error(c, err)
		return
	}

	contracts, err := h.contracts.ListContracts(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	documents, err := h.contracts.ListSignedDocuments(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	notifications, err := h.notifications.ListForLead(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          lead,
		"contracts":     contracts,
		"documents":     documents,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// Profile returns the signed-in account.
func (h *DashboardHandler) Profile(c *gin.Context) {
	email, err := currentEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	lead, err := h.leads.FindByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

type updateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Country     *string `json:"country" validate:"omitempty,max=80"`
	CountryCode *string `json:"country_code" validate:"omitempty,max=8"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
}

// UpdateProfile applies the client-editable profile fields.
func (h *DashboardHandler) UpdateProfile(c *gin.Context) {
	email, err := currentEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lead, err := h.leads.UpdateProfile(c.Request.Context(), email, services.UpdateProfileInput{
		Name:        req.Name,
		Country:     req.Country,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Profile updated.", lead)
}

// Notifications lists the account's notifications plus the unread count.
func (h *DashboardHandler) Notifications(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	notifications, err := h.notifications.ListForLead(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(ctx, lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead flags one notification as read.
func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), lead.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

// MarkAllNotificationsRead clears the unread badge.
func (h *DashboardHandler) MarkAllNotificationsRead(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), lead.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

// Messages returns the account's chat history, oldest first.
func (h *DashboardHandler) Messages(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	messages, err := h.chat.History(c.Request.Context(), lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required" validate:"required,max=4000"`
}

// SendMessage appends a client message to the chat.
func (h *DashboardHandler) SendMessage(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req sendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), lead.ID, models.ChatSenderUser, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

// Contracts lists contracts issued to the account.
func (h *DashboardHandler) Contracts(c *gin.Context) {
	lead, err := h.currentLead(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, contracts)
}

func (h *DashboardHandler) currentLead(c *gin.Context) (*models.Lead, error) {
	email, err := currentEmail(c)
	if err != nil {
		return nil, err
	}
	return h.leads.FindByEmail(c.Request.Context(), email)
}
