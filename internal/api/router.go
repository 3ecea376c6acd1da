package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/config"
	"skaplSite/internal/metrics"
)

// NewRouter builds the Gin engine with the shared middleware chain plus the
// liveness and metrics endpoints.
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	// Multipart bodies buffer in memory only up to the resume size cap.
	router.MaxMultipartMemory = cfg.Upload.MaxBytes
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		middleware.CORSMiddleware(cfg.API.AllowedOrigins()),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
