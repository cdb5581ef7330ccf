package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/response"
)

// SupportHandler accepts public support requests.
type SupportHandler struct {
	support *services.SupportService
}

// NewSupportHandler constructs a SupportHandler.
func NewSupportHandler(support *services.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

type supportRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,min=2,max=120"`
	Phone    string `json:"phone" binding:"required" validate:"required,max=20"`
	Location string `json:"location" binding:"required" validate:"required,max=120"`
	Issue    string `json:"issue" binding:"required" validate:"required,max=4000"`
}

// Create records a support query and alerts the operations inbox.
func (h *SupportHandler) Create(c *gin.Context) {
	var req supportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	query, err := h.support.Create(c.Request.Context(), req.Name, req.Phone, req.Location, req.Issue)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Support request received. We will call you back.", gin.H{
		"id": query.ID,
	})
}
