package models

import "time"

// MagangApplicant is the stored result of a magang application.
type MagangApplicant struct {
	ID          string    `db:"id" json:"id"`
	Nama        string    `db:"nama" json:"nama"`
	NRP         string    `db:"nrp" json:"nrp"`
	KelompokKP  string    `db:"kelompok_kp" json:"kelompokKP"`
	MindmapFile string    `db:"mindmap_file" json:"mindmapFile"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

// ApplyMagangResponse is the success body of /api/apply-magang.
type ApplyMagangResponse struct {
	Message   string          `json:"message"`
	Applicant MagangApplicant `json:"applicant"`
}
