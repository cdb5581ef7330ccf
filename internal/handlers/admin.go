package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/models"
	"github.com/nriproperty/portal/internal/services"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/response"
)

// AdminHandler serves the operator console: login, the enquiry queue,
// approvals, stats, support queries and the chat inbox.
type AdminHandler struct {
	admin         *services.AdminService
	leads         *services.LeadService
	chat          *services.ChatService
	support       *services.SupportService
	views         *services.ViewService
	notifications *services.NotificationService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(
	admin *services.AdminService,
	leads *services.LeadService,
	chat *services.ChatService,
	support *services.SupportService,
	views *services.ViewService,
	notifications *services.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		admin:         admin,
		leads:         leads,
		chat:          chat,
		support:       support,
		views:         views,
		notifications: notifications,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// Login authenticates an operator and returns an admin token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.admin.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful.", gin.H{"token": token})
}

// NewQueries lists every enquiry, newest first.
func (h *AdminHandler) NewQueries(c *gin.Context) {
	leads, err := h.leads.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, leads)
}

// ApprovedUsers lists approved accounts.
func (h *AdminHandler) ApprovedUsers(c *gin.Context) {
	leads, err := h.leads.ListApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, leads)
}

// ApproveLead moves an enquiry into the approved state.
func (h *AdminHandler) ApproveLead(c *gin.Context) {
	lead, err := h.leads.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Account approved.", lead)
}

// VerifyLead flags a lead as having completed contract onboarding.
func (h *AdminHandler) VerifyLead(c *gin.Context) {
	lead, err := h.leads.MarkVerified(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Account verified.", lead)
}

// QueriesStats summarises the lead pipeline.
func (h *AdminHandler) QueriesStats(c *gin.Context) {
	stats, err := h.leads.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// PageViews returns the landing-page view count.
func (h *AdminHandler) PageViews(c *gin.Context) {
	count, err := h.views.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"views": count})
}

// SupportQueriesCount returns how many support queries exist.
func (h *AdminHandler) SupportQueriesCount(c *gin.Context) {
	count, err := h.support.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": count})
}

// SupportQueries lists support queries, newest first.
func (h *AdminHandler) SupportQueries(c *gin.Context) {
	queries, err := h.support.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, queries)
}

// ChatUsers lists leads with active conversations for the chat inbox.
func (h *AdminHandler) ChatUsers(c *gin.Context) {
	threads, err := h.chat.Threads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, threads)
}

// ChatHistory returns one lead's conversation, oldest first. The inbox only
// covers verified leads.
func (h *AdminHandler) ChatHistory(c *gin.Context) {
	lead, err := h.leads.FindByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !lead.IsVerified {
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	messages, err := h.chat.History(c.Request.Context(), lead.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, messages)
}

type adminMessageRequest struct {
	Message string `json:"message" binding:"required" validate:"required,max=4000"`
}

// SendMessage appends an operator reply to a lead's conversation.
func (h *AdminHandler) SendMessage(c *gin.Context) {
	var req adminMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), c.Param("userId"), models.ChatSenderAdmin, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

type createNotificationRequest struct {
	Title    string                 `json:"title" binding:"required" validate:"required,max=255"`
	Message  string                 `json:"message" validate:"max=4000"`
	Severity string                 `json:"severity" validate:"omitempty,oneof=info warning critical"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CreateNotification posts a message to a lead's dashboard.
func (h *AdminHandler) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	leadID := c.Param("id")
	if _, err := h.leads.FindByID(c.Request.Context(), leadID); err != nil {
		response.Error(c, err)
		return
	}

	notification, err := h.notifications.Create(c.Request.Context(), leadID, req.Title, req.Message, req.Severity, req.Metadata)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, notification)
}
