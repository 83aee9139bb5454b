package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hmtc-its/hmtc-portal/internal/models"
)

// MagangSchema creates the applicant table used by PostgresMagangRepository.
const MagangSchema = `CREATE TABLE IF NOT EXISTS magang_applicants (
    id           TEXT PRIMARY KEY,
    nama         TEXT NOT NULL,
    nrp          CHAR(10) NOT NULL UNIQUE,
    kelompok_kp  TEXT NOT NULL,
    mindmap_file TEXT NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL
)`

// PostgresMagangRepository stores applicants in PostgreSQL. The unique
// constraint on nrp enforces one application per student.
type PostgresMagangRepository struct {
	db *sqlx.DB
}

// NewPostgresMagangRepository constructs the repository.
func NewPostgresMagangRepository(db *sqlx.DB) *PostgresMagangRepository {
	return &PostgresMagangRepository{db: db}
}

// Migrate applies MagangSchema.
func (r *PostgresMagangRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, MagangSchema); err != nil {
		return fmt.Errorf("migrate magang_applicants: %w", err)
	}
	return nil
}

// Create inserts the applicant; a conflicting NRP inserts nothing.
func (r *PostgresMagangRepository) Create(ctx context.Context, a models.MagangApplicant) error {
	const query = `INSERT INTO magang_applicants (id, nama, nrp, kelompok_kp, mindmap_file, submitted_at)
VALUES (:id, :nama, :nrp, :kelompok_kp, :mindmap_file, :submitted_at)
ON CONFLICT (nrp) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	if affected == 0 {
		return ErrDuplicateApplicant
	}
	return nil
}

// List returns applicants in submission order.
func (r *PostgresMagangRepository) List(ctx context.Context) ([]models.MagangApplicant, error) {
	const query = `SELECT id, nama, nrp, kelompok_kp, mindmap_file, submitted_at
FROM magang_applicants ORDER BY submitted_at ASC, id ASC`
	var out []models.MagangApplicant
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return out, nil
}

// Ping checks the connection for /ready.
func (r *PostgresMagangRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
