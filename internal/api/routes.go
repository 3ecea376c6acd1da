package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/auth"
	"skaplSite/internal/config"
	"skaplSite/internal/database"
	"skaplSite/internal/submission"
)

// Deps carries everything RegisterRoutes wires into handlers. Constructed
// once in cmd/api; nothing here is a package-level singleton.
type Deps struct {
	Config      *config.Config
	Store       *database.Store
	Pipeline    *submission.Pipeline
	Verifier    TokenVerifier
	Posts       PostSource
	Blobs       BlobLinker
	BlobRemover BlobRemover
	AuthService *auth.AuthService
	RedisClient *redis.Client
}

// RegisterRoutes registers the /api surface. In static-export mode the public
// form and feed endpoints are omitted (the exported frontend talks to the
// vendors directly) and only the probe and admin endpoints remain.
func RegisterRoutes(router *gin.Engine, deps Deps) {
	formHandler := NewFormHandler(deps.Pipeline, deps.RedisClient, deps.Config.Upload.MaxPerDay)
	turnstileHandler := NewTurnstileHandler(deps.Verifier)
	feedHandler := NewFeedHandler(deps.Posts, deps.Config.Feed.CacheTTLSeconds)
	healthHandler := NewHealthHandler(deps.Store)
	adminHandler := NewAdminHandler(deps.Store, deps.AuthService, deps.Blobs, deps.BlobRemover)

	apiGroup := router.Group("/api")

	if deps.Config.API.Mode == config.ModeServer {
		apiGroup.POST("/contact", formHandler.SubmitContact)
		apiGroup.POST("/career", formHandler.SubmitCareer)
		apiGroup.POST("/verify-turnstile", turnstileHandler.VerifyToken)
		apiGroup.GET("/medium-posts", feedHandler.ListPosts)
	}

	apiGroup.GET("/db-test", healthHandler.DBTest)

	// Without configured operator credentials there is no admin surface.
	if deps.AuthService == nil {
		return
	}

	adminGroup := apiGroup.Group("/admin")
	{
		adminGroup.POST("/login", adminHandler.Login)

		protected := adminGroup.Group("")
		protected.Use(middleware.AdminAuthMiddleware(deps.AuthService))
		{
			protected.GET("/contacts", adminHandler.ListContacts)
			protected.GET("/applications", adminHandler.ListApplications)
			protected.PATCH("/applications/:id/status", adminHandler.UpdateApplicationStatus)
			protected.DELETE("/resumes", adminHandler.DeleteResume)
		}
	}
}
