package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxmind/internal/models"
	"taxmind/internal/store"
)

// RegisterTeam registers a chat group as a team (bot owner only)
func (h *Handler) RegisterTeam(c *gin.Context) {
	var request models.RegisterTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	team, err := h.store.UpsertTeam(c.Request.Context(), request.ChatID, request.Name)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to register team", err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// RemoveTeam deletes a team registration (bot owner only)
func (h *Handler) RemoveTeam(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}
	if err := h.store.DeleteTeamByChatID(c.Request.Context(), chatID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to remove team", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ListTeams returns all registered teams (bot owner only)
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.store.ListTeams(c.Request.Context())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// AssignCompany reattaches a company to a team (bot owner only). This is
// the owner-level escape hatch around the write-once claim rule.
func (h *Handler) AssignCompany(c *gin.Context) {
	var request models.AssignCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	team, err := h.store.TeamByChatID(c.Request.Context(), request.ChatID)
	if errors.Is(err, store.ErrTeamNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No team registered for that chat id"})
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load team", err)
		return
	}

	if err := h.store.UpsertCompany(c.Request.Context(), request.TaxID, request.TaxID, team.ID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to assign company", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}
