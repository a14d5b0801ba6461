package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxmind/internal/config"
	"taxmind/internal/services"
	"taxmind/internal/store"
)

// Handler carries the dependencies of the HTTP command layer
type Handler struct {
	store     *store.Store
	reminders *services.ReminderService
	ingest    *services.IngestService
	admin     services.AdminChecker
	cfg       config.Config
	log       *zap.SugaredLogger
}

// New wires the HTTP command layer
func New(st *store.Store, reminders *services.ReminderService, ingest *services.IngestService, admin services.AdminChecker, cfg config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{
		store:     st,
		reminders: reminders,
		ingest:    ingest,
		admin:     admin,
		cfg:       cfg,
		log:       log,
	}
}

// handleError provides a consistent way to handle and log errors
func (h *Handler) handleError(c *gin.Context, status int, message string, err error) {
	h.log.Errorw(message, "path", c.FullPath(), "error", err)
	c.JSON(status, gin.H{"error": message})
}

// Home handles requests to the root path "/"
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Filing reminder service - ready.")
}

// Health is a simple health check endpoint
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
