package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const actorHeader = "X-Actor-ID"

// actorID pulls the acting chat-platform user from the request
func actorID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(actorHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// chatIDParam parses the :chatID path segment
func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// RequireOwner restricts a route to the configured bot owners
func (h *Handler) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := actorID(c)
		if !ok || !h.cfg.IsOwner(id) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only the bot owner may perform this action"})
			return
		}
		c.Set("actor_id", id)
		c.Next()
	}
}

// RequireChatAdmin restricts a route to administrators of the chat group in
// the path. The admin decision itself belongs to the chat platform.
func (h *Handler) RequireChatAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := chatIDParam(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
			return
		}
		userID, ok := actorID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing actor identity"})
			return
		}

		isAdmin, err := h.admin.IsChatAdmin(c.Request.Context(), chatID, userID)
		if err != nil || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only group admins may perform this action"})
			return
		}
		c.Set("chat_id", chatID)
		c.Set("actor_id", userID)
		c.Next()
	}
}
