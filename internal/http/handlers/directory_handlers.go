package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/services"
)

// DirectoryHandlers serve the home, edit and register screens
type DirectoryHandlers struct {
	svc *services.DirectoryService
}

// NewDirectoryHandlers creates directory handlers
func NewDirectoryHandlers(svc *services.DirectoryService) *DirectoryHandlers {
	return &DirectoryHandlers{svc: svc}
}

// filterFromQuery reads taluka_id and service_ids[] (or service_ids)
func filterFromQuery(c *gin.Context) domain.CompanyFilter {
	ids := append(c.QueryArray("service_ids[]"), c.QueryArray("service_ids")...)
	return domain.CompanyFilter{TalukaID: c.Query("taluka_id"), ServiceIDs: ids}
}

// Filters returns talukas and services
func (h *DirectoryHandlers) Filters(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	f, err := h.svc.Filters(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": f})
}

// List returns one page of filtered and searched companies
func (h *DirectoryHandlers) List(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	result, err := h.svc.Companies(c.Request.Context(), s, services.CompanyQuery{
		Filter: filterFromQuery(c),
		Search: c.Query("q"),
		Page:   page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// EditForm returns a company with its service ids resolved
func (h *DirectoryHandlers) EditForm(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	form, err := h.svc.EditForm(c.Request.Context(), s, domain.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": form})
}

// Update saves the edit form
func (h *DirectoryHandlers) Update(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	var in services.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.svc.UpdateCompany(c.Request.Context(), s, domain.ID(c.Param("id")), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Company updated successfully"}})
}

// Delete removes a company
func (h *DirectoryHandlers) Delete(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCompany(c.Request.Context(), s, domain.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Company deleted successfully"}})
}

// Register creates a company
func (h *DirectoryHandlers) Register(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		return
	}
	var in services.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.svc.RegisterCompany(c.Request.Context(), s, in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"message": "Company registered successfully"}})
}
