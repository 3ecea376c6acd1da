package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/turnstile"
)

// TokenVerifier is the slice of the turnstile client this handler needs.
type TokenVerifier interface {
	Verify(ctx context.Context, form turnstile.Form, token string) (turnstile.Result, error)
}

// TurnstileHandler exposes server-side challenge verification to the widget
// callback on the frontend.
type TurnstileHandler struct {
	verifier TokenVerifier
}

// NewTurnstileHandler constructs a TurnstileHandler.
func NewTurnstileHandler(verifier TokenVerifier) *TurnstileHandler {
	return &TurnstileHandler{verifier: verifier}
}

type verifyTokenRequest struct {
	Token    string `json:"token"`
	FormType string `json:"formType"`
}

// VerifyToken handles POST /api/verify-turnstile, passing the vendor verdict
// through to the caller.
func (h *TurnstileHandler) VerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON in request body"})
		return
	}

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing token"})
		return
	}

	form, err := turnstile.ParseForm(req.FormType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form type"})
		return
	}

	result, err := h.verifier.Verify(c.Request.Context(), form, req.Token)
	if err != nil {
		middleware.LoggerFromContext(c).Error("turnstile verification failed",
			slog.String("form", string(form)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify token"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Verification failed", "details": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "verification": result})
}
