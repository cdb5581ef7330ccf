package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/auth"
	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/response"
)

// AuthHandler exposes the OTP login flow and the current-session endpoint.
type AuthHandler struct {
	otp   *auth.OTPService
	leads *services.LeadService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(otp *auth.OTPService, leads *services.LeadService) *AuthHandler {
	return &AuthHandler{otp: otp, leads: leads}
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

// SendOTP issues a fresh login code to an approved account.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.Issue(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "OTP sent to your email.", nil)
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
	OTP   string `json:"otp" binding:"required" validate:"required,numeric,min=4,max=9"`
}

// VerifyOTP checks the submitted code and returns a session token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.otp.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful.", gin.H{
		"token": result.Token,
		"user": gin.H{
			"name":        result.Lead.Name,
			"email":       result.Lead.Email,
			"phone":       result.Lead.Phone,
			"is_approved": result.Lead.IsApproved,
			"is_verified": result.Lead.IsVerified,
		},
	})
}

// Me returns the account behind the current session token.
func (h *AuthHandler) Me(c *gin.Context) {
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
