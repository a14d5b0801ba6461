package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxmind/internal/calendar"
	"taxmind/internal/store"
)

// PreviewReminders returns the gathered payloads for a reference date
// without sending anything. Defaults to today; ?date=YYYY-MM-DD overrides.
func (h *Handler) PreviewReminders(c *gin.Context) {
	refDate := h.reminders.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(calendar.DateLayout, raw, h.cfg.Timezone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		refDate = parsed
	}

	payloads, err := h.reminders.Gather(c.Request.Context(), refDate)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to gather reminders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reference_date": refDate.Format(calendar.DateLayout), "payloads": payloads})
}

// ForceRemind sends reminders for every requirement in the admin's team,
// ignoring due-date proximity. Returns how many notifications went out so
// operators can spot partial failure.
func (h *Handler) ForceRemind(c *gin.Context) {
	chatID := c.GetInt64("chat_id")

	sent, err := h.reminders.ForceRemind(c.Request.Context(), chatID)
	if errors.Is(err, store.ErrTeamNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "This group is not registered as a team"})
		return
	}
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to force reminders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "mode": "forced"})
}

// RunDailySweep triggers the daily sweep immediately (bot owner only)
func (h *Handler) RunDailySweep(c *gin.Context) {
	report, err := h.reminders.SendDaily(c.Request.Context(), h.reminders.Today())
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Daily sweep failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
