package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
	"github.com/hmtc-its/hmtc-portal/pkg/export"
	"github.com/hmtc-its/hmtc-portal/pkg/response"
)

const contextActorKey = "portal.actor"

// ExportHandler serves the admin-only applicant roster exports.
type ExportHandler struct {
	exports *service.ApplicantExportService
	me      *service.MeService
	logger  *zap.Logger
}

// NewExportHandler constructs an ExportHandler. Admin rights are checked
// against the backend profile of the forwarded token.
func NewExportHandler(exports *service.ApplicantExportService, me *service.MeService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, me: me, logger: logger}
}

// RequireAdmin resolves the bearer token to a backend profile and rejects
// non-admins.
func (h *ExportHandler) RequireAdmin(c *gin.Context) {
	env, err := h.me.Get(c.Request.Context(), forwardBearer(c)...)
	if err == nil {
		err = env.Err()
	}
	if err != nil {
		response.Error(c, err)
		c.Abort()
		return
	}
	if !env.Data.Role.IsAdmin() {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "admin role required"))
		c.Abort()
		return
	}
	c.Set(contextActorKey, env.Data.NRP)
	c.Next()
}

// Create handles POST /api/magang/exports.
func (h *ExportHandler) Create(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	job, err := h.exports.Request(c.Request.Context(), req.Format, c.GetString(contextActorKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, "/api/magang/exports/"+job.ID, job)
}

// Get handles GET /api/magang/exports/:id.
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.exports.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download handles GET /api/magang/exports/:id/download.
func (h *ExportHandler) Download(c *gin.Context) {
	f, job, err := h.exports.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	renderer, err := export.ForFormat(string(job.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	info, err := f.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="magang-applicants%s"`, renderer.Extension()))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), renderer.ContentType(), f, nil)
	h.logger.Debug("export downloaded", zap.String("job_id", job.ID), zap.String("actor", c.GetString(contextActorKey)))
}
