package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/services"
)

// ContactHandlers serve the contact screen and bulk send
type ContactHandlers struct {
	contacts   *services.ContactService
	dispatcher *services.DispatchService
}

// NewContactHandlers creates contact handlers
func NewContactHandlers(contacts *services.ContactService, dispatcher *services.DispatchService) *ContactHandlers {
	return &ContactHandlers{contacts: contacts, dispatcher: dispatcher}
}

type toggleRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// List refreshes contacts from the directory
func (h *ContactHandlers) List(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	view, err := h.contacts.Contacts(c.Request.Context(), s, filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// Toggle flips one phone in the selection
func (h *ContactHandlers) Toggle(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}
	view, err := h.contacts.Toggle(c.Request.Context(), s, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// ToggleAll selects all displayed contacts or clears the selection
func (h *ContactHandlers) ToggleAll(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	view, err := h.contacts.ToggleAll(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// Send dispatches the multipart message and/or file to the recipients
// field, or to the session's selection when no recipients are given.
func (h *ContactHandlers) Send(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}

	att, err := attachmentFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content, err := domain.NewOutboundContent(c.PostForm("message"), att)
	if err != nil {
		respondError(c, err)
		return
	}

	recipients := recipientsFromForm(c)
	if len(recipients) == 0 {
		selected, err := h.contacts.Selected(c.Request.Context(), s)
		if err != nil {
			respondError(c, err)
			return
		}
		recipients = selected
	}

	report, err := h.dispatcher.Dispatch(c.Request.Context(), s, recipients, content)
	if err != nil {
		respondError(c, err)
		return
	}
	succeeded, failed := report.Counts()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":        report.ID,
			"kind":      report.Kind,
			"results":   report.Results,
			"report":    report.String(),
			"succeeded": succeeded,
			"failed":    failed,
		},
	})
}

// recipientsFromForm accepts repeated recipients fields and comma lists
func recipientsFromForm(c *gin.Context) []string {
	var out []string
	for _, v := range c.PostFormArray("recipients") {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func attachmentFromForm(c *gin.Context) (*domain.Attachment, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid file: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return &domain.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
