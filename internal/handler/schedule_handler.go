package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/pkg/response"
)

// ScheduleHandler serves the schedule flag consumed by the pollers.
type ScheduleHandler struct {
	windows *service.ScheduleWindowService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(windows *service.ScheduleWindowService) *ScheduleHandler {
	return &ScheduleHandler{windows: windows}
}

// Status answers GET /api/schedule?path= with {active}.
func (h *ScheduleHandler) Status(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		response.Site(c, http.StatusBadRequest, response.SiteError{Error: "path query parameter is required"})
		return
	}
	response.Site(c, http.StatusOK, models.ScheduleStatus{Active: h.windows.Active(path)})
}
