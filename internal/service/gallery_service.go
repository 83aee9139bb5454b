package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

const galleriesPath = "/galleries"

// GalleryService wraps the /galleries endpoints.
type GalleryService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewGalleryService constructs a GalleryService.
func NewGalleryService(client *apiclient.Client, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{client: client, logger: logger}
}

// GalleryQuery renders a filter as query parameters.
func GalleryQuery(f models.GalleryFilter) url.Values {
	return query{}.
		str("search", f.Search).
		str("tag", f.Tag).
		num("year", f.Year).
		num("page", f.Page).
		num("limit", f.Limit).
		values()
}

// List returns a page of gallery items.
func (s *GalleryService) List(ctx context.Context, f models.GalleryFilter) (*apiclient.Envelope[models.Page[models.GalleryItem]], error) {
	return apiclient.Get[models.Page[models.GalleryItem]](ctx, s.client, galleriesPath, apiclient.WithQuery(GalleryQuery(f)))
}

// Get returns one gallery item with its metadata.
func (s *GalleryService) Get(ctx context.Context, id int64) (*apiclient.Envelope[models.GalleryDetail], error) {
	return apiclient.Get[models.GalleryDetail](ctx, s.client, idPath(galleriesPath, id))
}

// Create submits a new gallery item. The body is multipart when a thumbnail
// is attached and JSON otherwise.
func (s *GalleryService) Create(ctx context.Context, form validation.GalleryForm, opts ...apiclient.RequestOption) (*apiclient.Envelope[models.GalleryDetail], error) {
	env, err := apiclient.Post[models.GalleryDetail](ctx, s.client, galleriesPath, append(opts, galleryBody(form))...)
	if err == nil && env.OK() {
		s.logger.Info("gallery created", zap.Int64("id", env.Data.ID))
	}
	return env, err
}

// Update replaces the editable fields of a gallery item.
func (s *GalleryService) Update(ctx context.Context, id int64, form validation.GalleryForm, opts ...apiclient.RequestOption) (*apiclient.Envelope[models.GalleryDetail], error) {
	return apiclient.Patch[models.GalleryDetail](ctx, s.client, idPath(galleriesPath, id), append(opts, galleryBody(form))...)
}

// Delete removes a gallery item.
func (s *GalleryService) Delete(ctx context.Context, id int64, opts ...apiclient.RequestOption) (*apiclient.Envelope[json.RawMessage], error) {
	env, err := apiclient.Delete[json.RawMessage](ctx, s.client, idPath(galleriesPath, id), opts...)
	if err == nil && env.OK() {
		s.logger.Info("gallery deleted", zap.Int64("id", id))
	}
	return env, err
}

func galleryBody(form validation.GalleryForm) apiclient.RequestOption {
	if form.Thumbnail == nil {
		return apiclient.WithJSON(form.Request())
	}
	mp := apiclient.NewMultipart().
		Field("title", form.Title).
		Field("date", form.Date).
		Field("link", form.Link).
		Field("image", form.Image).
		Field("width", strconv.Itoa(form.Width)).
		Field("height", strconv.Itoa(form.Height))
	if form.Description != "" {
		mp.Field("description", form.Description)
	}
	if len(form.Tags) > 0 {
		mp.Field("tags", strings.Join(form.Tags, ","))
	}
	return apiclient.WithMultipart(mp.File("thumbnail", form.Thumbnail))
}
