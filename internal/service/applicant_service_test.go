package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/repository"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
	"github.com/hmtc-its/hmtc-portal/pkg/storage"
)

func fixedWindows(now time.Time) *ScheduleWindowService {
	svc := NewScheduleWindowService([]models.ScheduleWindow{
		{Path: "/magang", Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
		{Path: "/oprec", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestScheduleWindowActive(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := fixedWindows(now)

	assert.True(t, svc.Active("/magang"))
	assert.True(t, svc.Active(" /magang/ "))
	assert.False(t, svc.Active("/oprec"))
	assert.False(t, svc.Active("/unknown"))
	assert.False(t, svc.Active(""))

	svc.now = func() time.Time { return now.Add(90 * time.Minute) }
	assert.False(t, svc.Active("/magang"))
	active, err := svc.Status(context.Background(), "/oprec")
	require.NoError(t, err)
	assert.True(t, active)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Status(ctx, "/oprec")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplicantServiceStoresMindmapAndApplicant(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	store := repository.NewMemoryMagangRepository()
	svc := NewApplicantService(fixedWindows(time.Now()), files, store, nil)

	applicant, err := svc.Apply(context.Background(), magangForm(t))
	require.NoError(t, err)
	assert.NotEmpty(t, applicant.ID)
	assert.True(t, strings.HasPrefix(applicant.MindmapFile, "mindmaps/"))
	assert.FileExists(t, filepath.Join(dir, applicant.MindmapFile))

	_, err = svc.Apply(context.Background(), magangForm(t))
	assert.ErrorIs(t, err, repository.ErrDuplicateApplicant)

	entries, err := os.ReadDir(filepath.Join(dir, "mindmaps"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApplicantServiceRejectsClosedWindow(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	windows := NewScheduleWindowService(nil)
	svc := NewApplicantService(windows, files, repository.NewMemoryMagangRepository(), nil)

	_, err = svc.Apply(context.Background(), magangForm(t))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScheduleClosed.Code, appErr.Code)
}
