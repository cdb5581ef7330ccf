package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/middleware"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// currentEmail returns the authenticated email stored by the auth middleware.
func currentEmail(c *gin.Context) (string, error) {
	value, ok := c.Get(middleware.ContextKeyEmail)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}

	email, ok := value.(string)
	if !ok || email == "" {
		return "", apperrors.ErrUnauthorized
	}
	return email, nil
}
