package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/submission"
)

// FormHandler serves the two lead-capture forms. All the real work happens in
// the submission pipeline; this layer binds requests, applies the per-IP
// submission cap and maps pipeline errors onto HTTP responses.
type FormHandler struct {
	pipeline    *submission.Pipeline
	redisClient *redis.Client
	maxPerDay   int
}

// NewFormHandler constructs a FormHandler.
func NewFormHandler(pipeline *submission.Pipeline, redisClient *redis.Client, maxPerDay int) *FormHandler {
	return &FormHandler{
		pipeline:    pipeline,
		redisClient: redisClient,
		maxPerDay:   maxPerDay,
	}
}

type contactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Message        string `json:"message"`
	TurnstileToken string `json:"turnstileToken"`
}

// SubmitContact handles POST /api/contact.
func (h *FormHandler) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid JSON in request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" || req.TurnstileToken == "" {
		BadRequest(c, "Missing required fields")
		return
	}

	receipt, err := h.pipeline.SubmitContact(c.Request.Context(), submission.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Token:   req.TurnstileToken,
	})
	if err != nil {
		h.writePipelineError(c, err, "Failed to save form data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Form submitted successfully",
		"id":         receipt.ID,
		"created_at": receipt.CreatedAt,
	})
}

// SubmitCareer handles POST /api/career (multipart).
func (h *FormHandler) SubmitCareer(c *gin.Context) {
	if h.overDailyLimit(c) {
		Error(c, http.StatusTooManyRequests, "Too many submissions, try again tomorrow")
		return
	}

	name := c.PostForm("name")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	position := c.PostForm("position_applied")
	coverLetter := c.PostForm("cover_letter")
	token := c.PostForm("turnstileToken")

	file, err := c.FormFile("resume")
	if err != nil {
		BadRequest(c, "Missing required fields")
		return
	}
	if name == "" || email == "" || position == "" || token == "" {
		BadRequest(c, "Missing required fields")
		return
	}

	receipt, err := h.pipeline.SubmitCareer(c.Request.Context(), submission.CareerInput{
		Name:        name,
		Email:       email,
		Phone:       phone,
		Position:    position,
		CoverLetter: coverLetter,
		Token:       token,
		Resume:      resumeFromHeader(file),
	})
	if err != nil {
		h.writePipelineError(c, err, "Failed to submit application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Application submitted successfully",
		"id":         receipt.ID,
		"created_at": receipt.CreatedAt,
	})
}

func resumeFromHeader(file *multipart.FileHeader) submission.ResumeFile {
	contentType := file.Header.Get("Content-Type")
	return submission.ResumeFile{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Open: func() (io.ReadCloser, error) {
			return file.Open()
		},
	}
}

func (h *FormHandler) writePipelineError(c *gin.Context, err error, persistenceMsg string) {
	logger := middleware.LoggerFromContext(c)

	var verr *submission.ValidationError
	var cerr *submission.VerificationError
	var uerr *submission.UploadError
	var perr *submission.PersistenceError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.As(err, &cerr):
		if cerr.Rejected {
			logger.Warn("challenge token rejected")
			Forbidden(c, "Security verification failed")
			return
		}
		logger.Error("challenge verification unavailable", slog.String("error", cerr.Error()))
		Internal(c, "Failed to verify captcha")
	case errors.As(err, &uerr):
		logger.Error("resume upload failed", slog.String("error", uerr.Error()))
		Internal(c, "Failed to upload resume file")
	case errors.As(err, &perr):
		logger.Error("persistence write failed", slog.String("error", perr.Error()))
		Internal(c, persistenceMsg)
	default:
		logger.Error("submission failed", slog.String("error", err.Error()))
		Internal(c, persistenceMsg)
	}
}

// overDailyLimit counts career submissions per client IP in Redis. Redis
// being unavailable never blocks a submission.
func (h *FormHandler) overDailyLimit(c *gin.Context) bool {
	if h.redisClient == nil || h.maxPerDay <= 0 {
		return false
	}

	key := fmt.Sprintf("career:submissions:%s:%s", c.ClientIP(), time.Now().UTC().Format("2006-01-02"))
	count, err := incrWithTTL(c.Request.Context(), h.redisClient, key, 24*time.Hour)
	if err != nil {
		middleware.LoggerFromContext(c).Warn("rate counter unavailable", slog.String("error", err.Error()))
		return false
	}
	return count > int64(h.maxPerDay)
}
