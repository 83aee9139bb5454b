package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const repositoriesPath = "/repositories"

// RepositoryService wraps the /repositories endpoints.
type RepositoryService struct {
	client *apiclient.Client
}

// NewRepositoryService constructs a RepositoryService.
func NewRepositoryService(client *apiclient.Client) *RepositoryService {
	return &RepositoryService{client: client}
}

// RepositoryQuery renders a filter as query parameters.
func RepositoryQuery(f models.RepositoryFilter) url.Values {
	return query{}.
		str("search", f.Search).
		str("category", f.Category).
		str("status", string(f.Status)).
		num("page", f.Page).
		num("limit", f.Limit).
		values()
}

// List returns a page of repository entries.
func (s *RepositoryService) List(ctx context.Context, f models.RepositoryFilter) (*apiclient.Envelope[models.Page[models.RepositoryItem]], error) {
	return apiclient.Get[models.Page[models.RepositoryItem]](ctx, s.client, repositoriesPath, apiclient.WithQuery(RepositoryQuery(f)))
}

// Get returns one entry.
func (s *RepositoryService) Get(ctx context.Context, id int64) (*apiclient.Envelope[models.RepositoryDetail], error) {
	return apiclient.Get[models.RepositoryDetail](ctx, s.client, idPath(repositoriesPath, id))
}

// Create submits a new draft entry.
func (s *RepositoryService) Create(ctx context.Context, payload models.RepositoryPayload) (*apiclient.Envelope[models.RepositoryDetail], error) {
	return apiclient.Post[models.RepositoryDetail](ctx, s.client, repositoriesPath, apiclient.WithJSON(payload))
}

// Update replaces the editable fields of an entry.
func (s *RepositoryService) Update(ctx context.Context, id int64, payload models.RepositoryPayload) (*apiclient.Envelope[models.RepositoryDetail], error) {
	return apiclient.Patch[models.RepositoryDetail](ctx, s.client, idPath(repositoriesPath, id), apiclient.WithJSON(payload))
}

// UpdateStatus moves an entry through its lifecycle. The backend enforces
// which transitions the caller may make.
func (s *RepositoryService) UpdateStatus(ctx context.Context, id int64, status models.RepositoryStatus) (*apiclient.Envelope[models.RepositoryDetail], error) {
	body := models.RepositoryStatusPayload{Status: status}
	return apiclient.Patch[models.RepositoryDetail](ctx, s.client, idPath(repositoriesPath, id, "status"), apiclient.WithJSON(body))
}

// Delete removes an entry.
func (s *RepositoryService) Delete(ctx context.Context, id int64) (*apiclient.Envelope[json.RawMessage], error) {
	return apiclient.Delete[json.RawMessage](ctx, s.client, idPath(repositoriesPath, id))
}
