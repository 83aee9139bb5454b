package service

import (
	"context"
	"strings"
	"time"

	"github.com/hmtc-its/hmtc-portal/internal/models"
)

// ScheduleWindowService answers /api/schedule from the configured windows.
// It also satisfies schedule.Fetcher so the gateway can watch its own
// windows open and close.
type ScheduleWindowService struct {
	windows []models.ScheduleWindow
	now     func() time.Time
}

// NewScheduleWindowService constructs the service over a fixed window list.
func NewScheduleWindowService(windows []models.ScheduleWindow) *ScheduleWindowService {
	copied := append([]models.ScheduleWindow(nil), windows...)
	return &ScheduleWindowService{windows: copied, now: time.Now}
}

// Active reports whether any window for path contains the current time.
// Unknown paths are inactive.
func (s *ScheduleWindowService) Active(path string) bool {
	path = normalizeSchedulePath(path)
	now := s.now()
	for _, w := range s.windows {
		if normalizeSchedulePath(w.Path) == path && w.Contains(now) {
			return true
		}
	}
	return false
}

// Status implements schedule.Fetcher.
func (s *ScheduleWindowService) Status(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.Active(path), nil
}

// Windows returns the configured windows.
func (s *ScheduleWindowService) Windows() []models.ScheduleWindow {
	return append([]models.ScheduleWindow(nil), s.windows...)
}

func normalizeSchedulePath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
