package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxmind/internal/services"
	"taxmind/internal/store"
)

// maxNoticeSize bounds uploaded notice documents
const maxNoticeSize = 2 << 20

// UploadNotice ingests an XML filing notice uploaded in a team's group.
// The uploading user is recorded as the company's provisional owner.
func (h *Handler) UploadNotice(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	senderID := c.GetInt64("actor_id")
	senderName := c.GetHeader("X-Actor-Name")

	data, err := readNoticeBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), chatID, senderID, senderName, data)
	switch {
	case errors.Is(err, store.ErrTeamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "This group is not registered as a team"})
	case errors.Is(err, services.ErrNoticeRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Notice is not an accepted filing acknowledgement - skipped"})
	case errors.Is(err, services.ErrForeignCompany):
		c.JSON(http.StatusForbidden, gin.H{"error": "Company is managed by another group - submission not recorded"})
	case err != nil:
		h.handleError(c, http.StatusInternalServerError, "Failed to record submission", err)
	default:
		c.JSON(http.StatusCreated, result)
	}
}

// readNoticeBody accepts either a multipart "document" field or a raw body
func readNoticeBody(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("document"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxNoticeSize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxNoticeSize))
}
