package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
)

// CasbinMW checks the session role against the stored policies
type CasbinMW struct {
	policies domain.PolicyService
	log      *slog.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService, logger *slog.Logger) *CasbinMW {
	if logger == nil {
		logger = slog.Default()
	}
	return &CasbinMW{policies: policies, log: logger}
}

// Enforce returns the casbin authorization middleware. It must run after
// the session middleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin role not found in session"})
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method
		allowed, err := mw.policies.CheckPermission(role, path, method)
		if err != nil {
			mw.log.ErrorContext(c.Request.Context(), "authorization check failed",
				slog.String("role", role), slog.String("path", path), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}
		c.Next()
	}
}
