package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
)

// sessionCleaner drops per-session screen state on logout
type sessionCleaner interface {
	Clear(ctx context.Context, sessionID string) error
}

// AuthHandlers handles login, logout and the session probe
type AuthHandlers struct {
	authSvc  domain.AuthService
	contacts sessionCleaner
	log      *slog.Logger
}

// NewAuthHandlers creates new auth handlers. contacts may be nil.
func NewAuthHandlers(authSvc domain.AuthService, contacts sessionCleaner, logger *slog.Logger) *AuthHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{authSvc: authSvc, contacts: contacts, log: logger}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles admin login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.authSvc.Authenticate(c.Request.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrAdminInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			h.log.ErrorContext(c.Request.Context(), "login failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"admin": gin.H{
				"id":    result.Admin.ID,
				"email": result.Admin.Email,
				"role":  result.Admin.Role,
			},
		},
	})
}

// Me returns the admin behind the session
func (h *AuthHandlers) Me(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}

	admin, err := h.authSvc.GetAdminProfile(c.Request.Context(), s.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get admin profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":         admin.ID,
			"email":      admin.Email,
			"role":       admin.Role,
			"is_active":  admin.IsActive,
			"session_id": s.ID,
			"expires_at": s.ExpiresAt,
			"created_at": admin.CreatedAt,
		},
	})
}

// Logout ends the session
func (h *AuthHandlers) Logout(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), s.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	if h.contacts != nil {
		if err := h.contacts.Clear(c.Request.Context(), s.ID); err != nil {
			h.log.WarnContext(c.Request.Context(), "clear contact state", slog.String("session_id", s.ID), slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":  "Logged out successfully",
			"redirect": "/login",
		},
	})
}
