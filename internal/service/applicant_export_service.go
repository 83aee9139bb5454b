package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
	"github.com/hmtc-its/hmtc-portal/pkg/export"
	"github.com/hmtc-its/hmtc-portal/pkg/jobs"
)

// ExportJobKind tags roster exports on the jobs queue.
const ExportJobKind = "magang_export"

// ExportFiles stores rendered exports.
type ExportFiles interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ApplicantExportService renders the magang applicant roster in the
// background. Job state lives in memory; files go to ExportFiles.
type ApplicantExportService struct {
	applicants MagangStore
	files      ExportFiles
	queue      jobDispatcher
	logger     *zap.Logger
	now        func() time.Time

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// NewApplicantExportService constructs the service. UseQueue must be called
// before Request.
func NewApplicantExportService(applicants MagangStore, files ExportFiles, logger *zap.Logger) *ApplicantExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicantExportService{
		applicants: applicants,
		files:      files,
		logger:     logger,
		now:        time.Now,
		jobs:       make(map[string]*models.ExportJob),
	}
}

// UseQueue sets the dispatcher that runs Handle.
func (s *ApplicantExportService) UseQueue(q jobDispatcher) {
	s.queue = q
}

// Request records a queued export and hands it to the worker pool.
func (s *ApplicantExportService) Request(ctx context.Context, format models.ExportFormat, actor string) (models.ExportJob, error) {
	if !format.Valid() {
		return models.ExportJob{}, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if s.queue == nil {
		return models.ExportJob{}, appErrors.Clone(appErrors.ErrInternal, "export queue is not running")
	}
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    models.ExportStatusQueued,
		CreatedBy: actor,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: ExportJobKind}); err != nil {
		s.fail(job.ID, "failed to enqueue export")
		return models.ExportJob{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	s.logger.Info("export queued", zap.String("job_id", job.ID), zap.String("format", string(format)), zap.String("actor", actor))
	return s.snapshot(job.ID)
}

// Job returns the current state of an export.
func (s *ApplicantExportService) Job(_ context.Context, id string) (models.ExportJob, error) {
	return s.snapshot(id)
}

// Open returns the rendered file of a finished export.
func (s *ApplicantExportService) Open(_ context.Context, id string) (*os.File, models.ExportJob, error) {
	job, err := s.snapshot(id)
	if err != nil {
		return nil, models.ExportJob{}, err
	}
	if job.Status != models.ExportStatusFinished {
		return nil, job, appErrors.Clone(appErrors.ErrConflict, "export is not ready")
	}
	f, err := s.files.Open(job.FileName)
	if err != nil {
		return nil, job, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return f, job, nil
}

// Handle renders one export; it is the jobs.Handler of the export queue.
func (s *ApplicantExportService) Handle(ctx context.Context, j jobs.Job) error {
	job, err := s.snapshot(j.ID)
	if err != nil {
		return err
	}
	s.update(j.ID, func(e *models.ExportJob) { e.Status = models.ExportStatusProcessing })

	applicants, err := s.applicants.List(ctx)
	if err != nil {
		return fmt.Errorf("list applicants: %w", err)
	}
	renderer, err := export.ForFormat(string(job.Format))
	if err != nil {
		return err
	}
	body, err := renderer.Render(rosterDataset(applicants))
	if err != nil {
		return err
	}
	name, err := s.files.Save("exports/"+job.ID+renderer.Extension(), body)
	if err != nil {
		return err
	}

	finished := s.now().UTC()
	s.update(j.ID, func(e *models.ExportJob) {
		e.Status = models.ExportStatusFinished
		e.Rows = len(applicants)
		e.FileName = name
		e.DownloadURL = "/api/magang/exports/" + e.ID + "/download"
		e.Error = ""
		e.FinishedAt = &finished
	})
	s.logger.Info("export finished", zap.String("job_id", j.ID), zap.Int("rows", len(applicants)))
	return nil
}

// GiveUp marks a job failed once the queue stops retrying it.
func (s *ApplicantExportService) GiveUp(j jobs.Job, err error) {
	s.fail(j.ID, err.Error())
}

func (s *ApplicantExportService) fail(id, message string) {
	finished := s.now().UTC()
	s.update(id, func(e *models.ExportJob) {
		e.Status = models.ExportStatusFailed
		e.Error = message
		e.FinishedAt = &finished
	})
}

func (s *ApplicantExportService) update(id string, fn func(*models.ExportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
	}
}

func (s *ApplicantExportService) snapshot(id string) (models.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.ExportJob{}, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return *job, nil
}

var rosterHeaders = []string{"No", "Nama", "NRP", "Kelompok KP", "Mindmap", "Submitted At"}

func rosterDataset(applicants []models.MagangApplicant) export.Dataset {
	rows := make([]map[string]string, 0, len(applicants))
	for i, a := range applicants {
		rows = append(rows, map[string]string{
			"No":           strconv.Itoa(i + 1),
			"Nama":         a.Nama,
			"NRP":          a.NRP,
			"Kelompok KP":  a.KelompokKP,
			"Mindmap":      a.MindmapFile,
			"Submitted At": a.SubmittedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return export.Dataset{Title: "Magang Applicants", Headers: rosterHeaders, Rows: rows}
}
