package service

import (
	"context"
	"net/url"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const requestsPath = "/requests"

// ReviewQuery renders a review filter as query parameters.
func ReviewQuery(f models.ReviewFilter) url.Values {
	return query{}.
		str("status", string(f.Status)).
		str("search", f.Search).
		num("page", f.Page).
		num("limit", f.Limit).
		values()
}

// RequestService wraps the /requests endpoints.
type RequestService struct {
	client *apiclient.Client
}

// NewRequestService constructs a RequestService.
func NewRequestService(client *apiclient.Client) *RequestService {
	return &RequestService{client: client}
}

// List returns a page of access requests.
func (s *RequestService) List(ctx context.Context, f models.ReviewFilter) (*apiclient.Envelope[models.Page[models.RequestItem]], error) {
	return apiclient.Get[models.Page[models.RequestItem]](ctx, s.client, requestsPath, apiclient.WithQuery(ReviewQuery(f)))
}

// Get returns one request with its review trail.
func (s *RequestService) Get(ctx context.Context, id int64) (*apiclient.Envelope[models.RequestDetail], error) {
	return apiclient.Get[models.RequestDetail](ctx, s.client, idPath(requestsPath, id))
}

// Create submits an access request.
func (s *RequestService) Create(ctx context.Context, payload models.CreateRequestPayload) (*apiclient.Envelope[models.RequestDetail], error) {
	return apiclient.Post[models.RequestDetail](ctx, s.client, requestsPath, apiclient.WithJSON(payload))
}

// Review records an admin decision.
func (s *RequestService) Review(ctx context.Context, id int64, decision models.ReviewDecision) (*apiclient.Envelope[models.RequestDetail], error) {
	return apiclient.Patch[models.RequestDetail](ctx, s.client, idPath(requestsPath, id, "review"), apiclient.WithJSON(decision))
}
