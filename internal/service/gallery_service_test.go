package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

func galleryForm(t *testing.T, title, date string) validation.GalleryForm {
	t.Helper()
	form, err := validation.ValidateGallery(validation.GalleryInput{
		Title:       title,
		Date:        date,
		Link:        "https://drive.google.com/file/d/abc123/view",
		Width:       "1200",
		Height:      "800",
		Description: "Dokumentasi kegiatan himpunan",
		Tags:        "makrab, 2026",
	})
	require.NoError(t, err)
	return form
}

func TestGalleryRoundTrip(t *testing.T) {
	b := newBackend(t)
	b.signInAdmin(t)
	svc := NewGalleryService(b.client, nil)
	ctx := context.Background()

	form := galleryForm(t, "Makrab HMTC", "2026-03-14")
	created, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.True(t, created.OK(), created.Message)

	got, err := svc.Get(ctx, created.Data.ID)
	require.NoError(t, err)
	require.True(t, got.OK())
	assert.Equal(t, form.Title, got.Data.Title)
	assert.Equal(t, form.Date, got.Data.Date)
	assert.Equal(t, form.Link, got.Data.Link)
	assert.Equal(t, form.Image, got.Data.Image)
	assert.Equal(t, form.Width, got.Data.Width)
	assert.Equal(t, form.Height, got.Data.Height)
	assert.Equal(t, form.Description, got.Data.Description)
	assert.Equal(t, []string{"makrab", "2026"}, got.Data.Tags)
	assert.Equal(t, "admin", got.Data.UploadedBy)
}

func TestGalleryMultipartKeepsImageAndStoresThumbnail(t *testing.T) {
	b := newBackend(t)
	b.signInAdmin(t)
	svc := NewGalleryService(b.client, nil)
	ctx := context.Background()

	form := galleryForm(t, "Wisuda ITS", "2026-02-01")
	form.Thumbnail = &apiclient.File{Name: "cover.png", ContentType: "image/png", Content: bytes.NewReader([]byte("png-bytes"))}
	created, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.True(t, created.OK(), created.Message)

	got, err := svc.Get(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, form.Image, got.Data.Image)
	assert.NotEmpty(t, got.Data.Thumbnail)
	assert.Equal(t, []string{"makrab", "2026"}, got.Data.Tags)

	resp, err := http.Get(b.server.URL + got.Data.Thumbnail)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGalleryListIsIdempotent(t *testing.T) {
	b := newBackend(t)
	b.signInAdmin(t)
	svc := NewGalleryService(b.client, nil)
	ctx := context.Background()
	for _, date := range []string{"2026-01-10", "2026-03-14", "2025-12-31", "2026-03-14"} {
		env, err := svc.Create(ctx, galleryForm(t, "Kegiatan "+date, date))
		require.NoError(t, err)
		require.True(t, env.OK())
	}

	filter := models.GalleryFilter{Year: 2026, Page: 1, Limit: 10}
	first, err := svc.List(ctx, filter)
	require.NoError(t, err)
	second, err := svc.List(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	require.Len(t, first.Data.Items, 3)
	assert.Equal(t, 3, first.Data.Pagination.TotalCount)
	assert.Equal(t, "2026-03-14", first.Data.Items[0].Date)
	assert.Greater(t, first.Data.Items[0].ID, first.Data.Items[1].ID)
}

func TestGalleryUpdateAndDelete(t *testing.T) {
	b := newBackend(t)
	b.signInAdmin(t)
	svc := NewGalleryService(b.client, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, galleryForm(t, "Makrab HMTC", "2026-03-14"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Data.ID, galleryForm(t, "Makrab HMTC 2026", "2026-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "Makrab HMTC 2026", updated.Data.Title)
	assert.Equal(t, "2026-03-15", updated.Data.Date)

	deleted, err := svc.Delete(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.True(t, deleted.OK())

	_, err = svc.Get(ctx, created.Data.ID)
	var httpErr *apiclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestGalleryWritesNeedAdmin(t *testing.T) {
	b := newBackend(t)
	b.registerAndSignIn(t, "5025211001")
	_, err := NewGalleryService(b.client, nil).Create(context.Background(), galleryForm(t, "Makrab HMTC", "2026-03-14"))
	var httpErr *apiclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestGalleryQuerySkipsZeroValues(t *testing.T) {
	q := GalleryQuery(models.GalleryFilter{Search: "makrab", Page: 2})
	assert.Equal(t, "page=2&search=makrab", q.Encode())
	assert.Empty(t, GalleryQuery(models.GalleryFilter{}).Encode())
}
