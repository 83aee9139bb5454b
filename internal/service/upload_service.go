package service

import (
	"context"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const uploadsPath = "/uploads"

// UploadService wraps the /uploads endpoints.
type UploadService struct {
	client *apiclient.Client
}

// NewUploadService constructs an UploadService.
func NewUploadService(client *apiclient.Client) *UploadService {
	return &UploadService{client: client}
}

// List returns a page of uploads.
func (s *UploadService) List(ctx context.Context, f models.ReviewFilter) (*apiclient.Envelope[models.Page[models.UploadItem]], error) {
	return apiclient.Get[models.Page[models.UploadItem]](ctx, s.client, uploadsPath, apiclient.WithQuery(ReviewQuery(f)))
}

// Get returns one upload.
func (s *UploadService) Get(ctx context.Context, id int64) (*apiclient.Envelope[models.UploadDetail], error) {
	return apiclient.Get[models.UploadDetail](ctx, s.client, idPath(uploadsPath, id))
}

// Submit sends the file as multipart field "file" with its scalar fields.
func (s *UploadService) Submit(ctx context.Context, form validation.UploadForm) (*apiclient.Envelope[models.UploadDetail], error) {
	mp := apiclient.NewMultipart().Field("title", form.Title)
	if form.Description != "" {
		mp.Field("description", form.Description)
	}
	mp.File("file", form.File)
	return apiclient.Post[models.UploadDetail](ctx, s.client, uploadsPath, apiclient.WithMultipart(mp))
}

// Review records an admin decision.
func (s *UploadService) Review(ctx context.Context, id int64, decision models.ReviewDecision) (*apiclient.Envelope[models.UploadDetail], error) {
	return apiclient.Patch[models.UploadDetail](ctx, s.client, idPath(uploadsPath, id, "review"), apiclient.WithJSON(decision))
}
