package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/logger"
	"github.com/nriproperty/portal/pkg/response"
)

// EnquiryAcker sends the thank-you email after an enquiry is recorded.
type EnquiryAcker interface {
	SendEnquiryAck(ctx context.Context, email, name, service string) error
}

// EnquiryHandler covers public enquiry intake and the email status probe.
type EnquiryHandler struct {
	leads    *services.LeadService
	acker    EnquiryAcker
	dispatch func(func())
}

// NewEnquiryHandler constructs an EnquiryHandler. The acker may be nil when
// outbound email is disabled.
func NewEnquiryHandler(leads *services.LeadService, acker EnquiryAcker) *EnquiryHandler {
	return &EnquiryHandler{
		leads:    leads,
		acker:    acker,
		dispatch: func(fn func()) { go fn() },
	}
}

type registerRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,min=2,max=120"`
	Email       string `json:"email" binding:"required" validate:"required,email"`
	Country     string `json:"country" validate:"max=80"`
	CountryCode string `json:"country_code" validate:"max=8"`
	Phone       string `json:"phone" validate:"max=20"`
	Service     string `json:"service" validate:"max=120"`
	Message     string `json:"message" validate:"max=4000"`
}

// Register records a new enquiry and acknowledges it by email.
func (h *EnquiryHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), services.CreateLeadInput{
		Name:        req.Name,
		Email:       req.Email,
		Country:     req.Country,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
		Service:     req.Service,
		Message:     req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.acker != nil {
		email, name, service := lead.Email, lead.Name, lead.Service
		h.dispatch(func() {
			if err := h.acker.SendEnquiryAck(context.Background(), email, name, service); err != nil {
				logger.Error("enquiry acknowledgement failed",
					zap.String("email", email),
					zap.Error(err),
				)
			}
		})
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Enquiry submitted. Our team will contact you shortly.", gin.H{
		"id":     lead.ID,
		"status": lead.Status,
	})
}

type checkEmailRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

// CheckEmail reports how far an email has progressed through the pipeline,
// so the frontend can route between enquiry, waiting and login screens.
func (h *EnquiryHandler) CheckEmail(c *gin.Context) {
	var req checkEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	status, err := h.leads.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": status})
}
