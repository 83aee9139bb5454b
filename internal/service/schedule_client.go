package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

// ScheduleClient asks the site whether a time-gated path is open. It
// satisfies schedule.Fetcher.
type ScheduleClient struct {
	client *apiclient.Client
}

// NewScheduleClient constructs a ScheduleClient bound to the site client.
func NewScheduleClient(site *apiclient.Client) *ScheduleClient {
	return &ScheduleClient{client: site}
}

// Status returns the active flag for path.
func (s *ScheduleClient) Status(ctx context.Context, path string) (bool, error) {
	var out models.ScheduleStatus
	err := s.client.DoJSON(ctx, http.MethodGet, "/api/schedule", &out, apiclient.WithQuery(url.Values{"path": {path}}))
	if err != nil {
		return false, err
	}
	return out.Active, nil
}
