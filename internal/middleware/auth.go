package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nriproperty/portal/internal/auth"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/response"
)

// Context keys populated by the auth middleware.
const (
	ContextKeyClaims = "auth.claims"
	ContextKeyEmail  = "auth.email"
	ContextKeyName   = "auth.name"
	ContextKeyRole   = "auth.role"
)

// ApprovalChecker re-validates that an account is still approved. Wired to
// the lead store when live approval rechecks are enabled.
type ApprovalChecker interface {
	IsApproved(ctx context.Context, email string) (bool, error)
}

// Auth validates the bearer token and stores its claims on the request
// context. The optional checker enforces live approval state on every
// request instead of trusting the token alone.
func Auth(tokens *auth.JWTService, checker ApprovalChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		if checker != nil && claims.Role != auth.RoleAdmin {
			approved, err := checker.IsApproved(c.Request.Context(), claims.Email)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if !approved {
				response.Error(c, apperrors.ErrPendingApproval)
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyName, claims.Name)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireAdmin gates a route group to tokens carrying the admin role. Must
// run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextKeyRole)
		if role != auth.RoleAdmin {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Fallback for links that cannot carry headers, such as file downloads.
	return strings.TrimSpace(c.Query("token"))
}
