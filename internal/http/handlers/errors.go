package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/http/middleware"
	"github.com/rahulwaghole14/mandap/internal/services"
)

// respondError maps service errors to status codes
func respondError(c *gin.Context, err error) {
	var (
		verr   *domain.ValidationError
		apiErr *domain.APIError
		urlErr *url.Error
	)
	switch {
	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrUpstreamUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    services.ReasonSessionExpired,
			"redirect": services.LoginPath,
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, domain.ErrNoRecipients):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select at least one contact"})
	case errors.Is(err, domain.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a message or select a file"})
	case errors.Is(err, domain.ErrDispatchInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "A send is already in progress"})
	case errors.Is(err, domain.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	case errors.Is(err, domain.ErrMalformedResponse), errors.As(err, &urlErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Directory request failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// sessionFrom loads the gate's session or answers 401
func sessionFrom(c *gin.Context) (*domain.Session, bool) {
	s := middleware.SessionFrom(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    services.ReasonLoginRequired,
			"redirect": services.LoginPath,
		})
		return nil, false
	}
	return s, true
}
