package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxmind/internal/models"
	"taxmind/internal/store"
)

// quickAddBundles is the standard requirement set seeded per declared
// frequency. Yearly settlement forms apply to every company.
var quickAddBundles = map[models.Frequency][]models.Requirement{
	models.Monthly: {
		{FormCode: "01/GTGT", Frequency: models.Monthly},
		{FormCode: "05/KK-TNCN", Frequency: models.Monthly},
	},
	models.Quarterly: {
		{FormCode: "01/GTGT", Frequency: models.Quarterly},
		{FormCode: "05/KK-TNCN", Frequency: models.Quarterly},
	},
}

var yearlyBundle = []models.Requirement{
	{FormCode: "05/QTT-TNCN", Frequency: models.Yearly},
	{FormCode: "TT200", Frequency: models.Yearly},
	{FormCode: "03/TNDN", Frequency: models.Yearly},
}

// AddRequirement adds a filing requirement for one of the team's companies
func (h *Handler) AddRequirement(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	var request models.AddRequirementRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !h.companyHeldByTeam(c, request.TaxID, team.ID) {
		return
	}

	// keep the catalog in sync so notice detection recognizes the code
	if err := h.store.EnsureForms(c.Request.Context(), []models.Form{{Code: request.FormCode, DisplayName: request.FormCode}}); err != nil {
		h.log.Warnw("failed to seed form code", "form_code", request.FormCode, "error", err)
	}

	req := models.Requirement{
		CompanyTaxID: request.TaxID,
		FormCode:     request.FormCode,
		Frequency:    request.Frequency,
	}
	err := h.store.AddRequirement(c.Request.Context(), req)
	if errors.Is(err, store.ErrDuplicateRequirement) {
		c.JSON(http.StatusConflict, gin.H{"error": "Requirement already exists"})
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to add requirement", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

// RemoveRequirement deletes requirements for a company form, optionally
// narrowed to one frequency via ?frequency=
func (h *Handler) RemoveRequirement(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	taxID := c.Param("taxID")
	formCode := c.Query("form_code")
	if formCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form_code is required"})
		return
	}
	if !h.companyHeldByTeam(c, taxID, team.ID) {
		return
	}

	freq := models.Frequency(c.Query("frequency"))
	if err := h.store.RemoveRequirement(c.Request.Context(), taxID, formCode, freq); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to remove requirement", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ListRequirements returns every requirement across the team's companies
func (h *Handler) ListRequirements(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	reqs, err := h.store.RequirementsByTeam(c.Request.Context(), team.ID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// QuickAdd seeds the standard requirement bundle for a company. Existing
// triples are reported as skipped rather than failing the call.
func (h *Handler) QuickAdd(c *gin.Context) {
	team, ok := h.teamForChat(c)
	if !ok {
		return
	}

	var request models.QuickAddRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !h.companyHeldByTeam(c, request.TaxID, team.ID) {
		return
	}

	toAdd := append([]models.Requirement{}, quickAddBundles[request.Frequency]...)
	toAdd = append(toAdd, yearlyBundle...)

	var added, skipped []models.Requirement
	for _, req := range toAdd {
		req.CompanyTaxID = request.TaxID
		if err := h.store.EnsureForms(c.Request.Context(), []models.Form{{Code: req.FormCode, DisplayName: req.FormCode}}); err != nil {
			h.log.Warnw("failed to seed form code", "form_code", req.FormCode, "error", err)
		}

		err := h.store.AddRequirement(c.Request.Context(), req)
		if errors.Is(err, store.ErrDuplicateRequirement) {
			skipped = append(skipped, req)
			continue
		}
		if err != nil {
			h.handleError(c, http.StatusInternalServerError, "Failed to add requirement", err)
			return
		}
		added = append(added, req)
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "skipped": skipped})
}
