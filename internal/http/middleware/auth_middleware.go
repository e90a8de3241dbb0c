package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/services"
)

// Context keys set by the session middleware
const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
	AdminIDKey   = "admin_id"
	RoleKey      = "admin_role"
)

// Gate decides whether a bearer token maps to a live session
type Gate interface {
	Require(ctx context.Context, bearer string) services.GateDecision
}

// AuthMW runs the session gate in front of guarded routes
type AuthMW struct {
	gate Gate
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(gate Gate) *AuthMW {
	return &AuthMW{gate: gate}
}

// WithSession returns the session gate middleware
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return AuthMiddleware(mw.gate)
}

// AuthMiddleware aborts with 401 and a login redirect unless the request
// carries a live session.
func AuthMiddleware(gate Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Require(c.Request.Context(), c.GetHeader("Authorization"))
		if !decision.Authorized() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    decision.Reason,
				"redirect": decision.Redirect,
			})
			return
		}

		s := decision.Session
		c.Set(SessionKey, s)
		c.Set(SessionIDKey, s.ID)
		c.Set(AdminIDKey, s.AdminID)
		c.Set(RoleKey, s.Role)
		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware, or nil
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}
