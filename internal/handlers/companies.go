package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxmind/internal/models"
	"taxmind/internal/store"
)

// teamForChat resolves the :chatID path segment to its registered team,
// writing the error response itself when the lookup fails
func (h *Handler) teamForChat(c *gin.Context) (*models.Team, bool) {
	chatID := c.GetInt64("chat_id")
	team, err := h.store.TeamByChatID(c.Request.Context(), chatID)
	if errors.Is(err, store.ErrTeamNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "This group is not registered as a team"})
		return nil, false
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load team", err)
		return nil, false
	}
	return team, true
}

// companyHeldByTeam checks the write-once claim boundary before a mutation
func (h *Handler) companyHeldByTeam(c *gin.Context, taxID string, teamID uint) bool {
	company, err := h.store.CompanyByTaxID(c.Request.Context(), taxID)
	if errors.Is(err, store.ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return false
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load company", err)
		return false
	}
	if company.TeamID == nil || *company.TeamID != teamID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Company is not managed by this team"})
		return false
	}
	return true
}

// AddCompany adds or reclaims a company for the admin's team
func (h *Handler) AddCompany(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	var request models.AddCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	name := request.Name
	if name == "" {
		name = request.TaxID
	}

	if err := h.store.UpsertCompany(c.Request.Context(), request.TaxID, name, team.ID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to add company", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added", "tax_id": request.TaxID})
}

// RemoveCompany removes a company from the admin's team
func (h *Handler) RemoveCompany(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	taxID := c.Param("taxID")
	if err := h.store.DeleteCompany(c.Request.Context(), taxID, team.ID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to remove company", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ListCompanies returns the team's companies
func (h *Handler) ListCompanies(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	companies, err := h.store.CompaniesByTeam(c.Request.Context(), team.ID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// SetOwner assigns a responsible owner to one of the team's companies
func (h *Handler) SetOwner(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	taxID := c.Param("taxID")
	if !h.companyHeldByTeam(c, taxID, team.ID) {
		return
	}

	var request models.SetOwnerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.store.SetOwner(c.Request.Context(), taxID, request.OwnerID, request.OwnerName); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to set owner", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "owner set"})
}

// ClearOwner removes the responsible owner from one of the team's companies
func (h *Handler) ClearOwner(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	taxID := c.Param("taxID")
	if !h.companyHeldByTeam(c, taxID, team.ID) {
		return
	}

	if err := h.store.ClearOwner(c.Request.Context(), taxID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to clear owner", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "owner cleared"})
}

// RenameCompany updates the display name of one of the team's companies
func (h *Handler) RenameCompany(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	taxID := c.Param("taxID")
	if !h.companyHeldByTeam(c, taxID, team.ID) {
		return
	}

	var request models.RenameCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.store.RenameCompany(c.Request.Context(), taxID, request.Name); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to rename company", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}
