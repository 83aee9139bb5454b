package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

// MagangPath is the schedule path gating magang applications.
const MagangPath = "/magang"

const mindmapDir = "mindmaps"

// MagangStore persists applicants; duplicate NRPs are rejected by the store.
type MagangStore interface {
	Create(ctx context.Context, a models.MagangApplicant) error
	List(ctx context.Context) ([]models.MagangApplicant, error)
}

// FileStore saves uploaded files under a directory and returns their name.
type FileStore interface {
	Store(dir, original string, r io.Reader) (string, error)
	Delete(name string) error
}

// ApplicantService handles /api/apply-magang on the site side.
type ApplicantService struct {
	windows *ScheduleWindowService
	files   FileStore
	store   MagangStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewApplicantService constructs an ApplicantService.
func NewApplicantService(windows *ScheduleWindowService, files FileStore, store MagangStore, logger *zap.Logger) *ApplicantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicantService{windows: windows, files: files, store: store, logger: logger, now: time.Now}
}

// Apply records a validated application while the magang window is open.
// The mindmap is removed again when the applicant cannot be stored.
func (s *ApplicantService) Apply(ctx context.Context, form validation.MagangForm) (models.MagangApplicant, error) {
	if !s.windows.Active(MagangPath) {
		return models.MagangApplicant{}, appErrors.ErrScheduleClosed
	}
	if form.Mindmap == nil || form.Mindmap.Content == nil {
		return models.MagangApplicant{}, appErrors.Clone(appErrors.ErrValidation, "mindmap is required")
	}

	name, err := s.files.Store(mindmapDir, form.Mindmap.Name, form.Mindmap.Content)
	if err != nil {
		return models.MagangApplicant{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store mindmap")
	}

	applicant := models.MagangApplicant{
		ID:          uuid.NewString(),
		Nama:        form.Nama,
		NRP:         form.NRP,
		KelompokKP:  form.KelompokKP,
		MindmapFile: name,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, applicant); err != nil {
		if delErr := s.files.Delete(name); delErr != nil {
			s.logger.Warn("failed to remove orphaned mindmap", zap.String("file", name), zap.Error(delErr))
		}
		return models.MagangApplicant{}, err
	}

	s.logger.Info("magang application received", zap.String("applicant_id", applicant.ID), zap.String("nrp", applicant.NRP))
	return applicant, nil
}

// List returns every stored applicant.
func (s *ApplicantService) List(ctx context.Context) ([]models.MagangApplicant, error) {
	return s.store.List(ctx)
}
