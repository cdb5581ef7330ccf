package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/response"
)

// ViewHandler exposes the public landing-page view counter.
type ViewHandler struct {
	views *services.ViewService
}

// NewViewHandler constructs a ViewHandler.
func NewViewHandler(views *services.ViewService) *ViewHandler {
	return &ViewHandler{views: views}
}

// Current returns the persisted view count.
func (h *ViewHandler) Current(c *gin.Context) {
	count, err := h.views.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"views": count})
}

// Increment bumps the counter and returns the new value.
func (h *ViewHandler) Increment(c *gin.Context) {
	count, err := h.views.Increment(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"views": count})
}
