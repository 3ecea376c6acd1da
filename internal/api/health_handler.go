package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/database"
)

// HealthHandler exposes the persistence probe. Not part of the product
// surface; used by deploy checks.
type HealthHandler struct {
	store *database.Store
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(store *database.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// DBTest handles GET /api/db-test: ping the database and report the contact
// submission count.
func (h *HealthHandler) DBTest(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.store.Ping(ctx); err != nil {
		middleware.LoggerFromContext(c).Error("db probe ping", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database connection failed"})
		return
	}

	count, err := h.store.ContactCount(ctx)
	if err != nil {
		middleware.LoggerFromContext(c).Error("db probe count", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "database connection is working",
		"data":    gin.H{"contactSubmissionsCount": count},
	})
}
