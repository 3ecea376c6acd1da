package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skaplSite/internal/api/middleware"
	"skaplSite/internal/auth"
	"skaplSite/internal/database"
	"skaplSite/internal/storage"
)

const defaultAdminListLimit = 100

// BlobLinker re-signs download links for stored resumes.
type BlobLinker interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// BlobRemover deletes stored resume objects. Implemented by storage.Client.
type BlobRemover interface {
	DeleteObject(ctx context.Context, objectKey string) error
}

// AdminHandler is the operator surface: review submissions, advance
// application status, clean up resume blobs. Everything except login sits
// behind the session token.
type AdminHandler struct {
	store       *database.Store
	authService *auth.AuthService
	blobs       BlobLinker
	remover     BlobRemover
}

// NewAdminHandler constructs an AdminHandler. blobs and remover may be nil in tests.
func NewAdminHandler(store *database.Store, authService *auth.AuthService, blobs BlobLinker, remover BlobRemover) *AdminHandler {
	return &AdminHandler{
		store:       store,
		authService: authService,
		blobs:       blobs,
		remover:     remover,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Missing password")
		return
	}

	if !h.authService.CheckPassword(req.Password) {
		Unauthorized(c)
		return
	}

	token, err := h.authService.IssueToken()
	if err != nil {
		middleware.LoggerFromContext(c).Error("issue admin token", slog.String("error", err.Error()))
		Internal(c, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(h.authService.TokenTTL().Seconds()),
	})
}

type contactListItem struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
}

// ListContacts handles GET /api/admin/contacts.
func (h *AdminHandler) ListContacts(c *gin.Context) {
	rows, err := h.store.ListContacts(c.Request.Context(), listLimit(c))
	if err != nil {
		middleware.LoggerFromContext(c).Error("list contacts", slog.String("error", err.Error()))
		Internal(c, "failed to list contact submissions")
		return
	}

	items := make([]contactListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, contactListItem{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			Name:      row.Name,
			Email:     row.Email,
			Phone:     row.Phone,
			Message:   row.Message,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type applicationListItem struct {
	ID              uint      `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	PositionApplied string    `json:"position_applied"`
	CoverLetter     string    `json:"cover_letter,omitempty"`
	ResumeURL       string    `json:"resume_url"`
	Status          string    `json:"status"`
}

// ListApplications handles GET /api/admin/applications. Resume links are
// re-signed from the stored object key so reviewers never see an expired URL.
func (h *AdminHandler) ListApplications(c *gin.Context) {
	rows, err := h.store.ListApplications(c.Request.Context(), listLimit(c))
	if err != nil {
		middleware.LoggerFromContext(c).Error("list applications", slog.String("error", err.Error()))
		Internal(c, "failed to list career applications")
		return
	}

	items := make([]applicationListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, applicationListItem{
			ID:              row.ID,
			CreatedAt:       row.CreatedAt,
			Name:            row.Name,
			Email:           row.Email,
			Phone:           row.Phone,
			PositionApplied: row.PositionApplied,
			CoverLetter:     row.CoverLetter,
			ResumeURL:       h.resumeLink(c, row),
			Status:          row.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus handles PATCH /api/admin/applications/:id/status.
func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid application id")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Missing status")
		return
	}

	switch err := h.store.UpdateApplicationStatus(c.Request.Context(), uint(id), req.Status); {
	case err == nil:
		Success(c, "Status updated")
	case errors.Is(err, database.ErrApplicationNotFound):
		NotFound(c, "application not found")
	default:
		middleware.LoggerFromContext(c).Error("update application status", slog.String("error", err.Error()))
		Internal(c, "failed to update status")
	}
}

type resumeDeleteRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
}

// DeleteResume handles DELETE /api/admin/resumes. This is the cleanup path
// for orphaned blobs: a row insert that fails after the upload leaves the
// object behind and logs its key, and an operator removes it here. Deleting
// an already-missing object succeeds.
func (h *AdminHandler) DeleteResume(c *gin.Context) {
	if h.remover == nil {
		Internal(c, "resume storage unavailable")
		return
	}

	var req resumeDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Missing object key")
		return
	}

	// Only resume objects are deletable through this endpoint.
	if !strings.HasPrefix(req.ObjectKey, "resumes/") || strings.Contains(req.ObjectKey, "..") {
		BadRequest(c, "invalid object key")
		return
	}

	if err := h.remover.DeleteObject(c.Request.Context(), req.ObjectKey); err != nil {
		middleware.LoggerFromContext(c).Error("delete resume blob",
			slog.String("object_key", req.ObjectKey),
			slog.String("error", err.Error()),
		)
		Internal(c, "failed to delete resume")
		return
	}

	Success(c, "Resume deleted")
}

// resumeLink prefers a freshly signed URL over the stored one, which may be
// up to seven days old.
func (h *AdminHandler) resumeLink(c *gin.Context, row database.CareerApplication) string {
	if h.blobs == nil || len(row.ResumeMeta) == 0 {
		return row.ResumeURL
	}

	var meta struct {
		ObjectKey string `json:"object_key"`
	}
	if err := json.Unmarshal(row.ResumeMeta, &meta); err != nil || meta.ObjectKey == "" {
		return row.ResumeURL
	}

	signed, err := h.blobs.GeneratePresignedURL(c.Request.Context(), meta.ObjectKey, storage.ResumeURLTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Warn("re-sign resume link",
			slog.String("object_key", meta.ObjectKey),
			slog.String("error", err.Error()),
		)
		return row.ResumeURL
	}
	return signed
}

func listLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAdminListLimit)))
	if err != nil || limit <= 0 {
		return defaultAdminListLimit
	}
	if limit > 500 {
		return 500
	}
	return limit
}
