package models

import "time"

// ReviewStatus is shared by access requests and uploads.
type ReviewStatus string

const (
	ReviewInReview ReviewStatus = "in_review"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewInReview, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Terminal is true once a decision was made.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// CanTransition only allows in_review to move to a decision.
func (s ReviewStatus) CanTransition(to ReviewStatus) bool {
	return s == ReviewInReview && to.Terminal()
}

// ReviewDecision is the admin verdict payload.
type ReviewDecision struct {
	Status ReviewStatus `json:"status"`
	Note   string       `json:"note,omitempty"`
}

// ReviewFilter narrows request/upload listings.
type ReviewFilter struct {
	Status ReviewStatus
	Search string
	Page   int
	Limit  int
}

// RequestItem is an access request as listed on the dashboard.
type RequestItem struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Type      string       `json:"type"`
	Requester string       `json:"requester"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// RequestDetail adds the justification and review trail.
type RequestDetail struct {
	RequestItem
	Description string     `json:"description"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
	ReviewNote  string     `json:"reviewNote,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
}

// CreateRequestPayload submits an access request.
type CreateRequestPayload struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UploadItem is a file submission awaiting or past review.
type UploadItem struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	FileName  string       `json:"fileName"`
	Uploader  string       `json:"uploader"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// UploadDetail adds file metadata and reviewer attribution.
type UploadDetail struct {
	UploadItem
	Description string     `json:"description,omitempty"`
	ContentType string     `json:"contentType"`
	FileSize    int64      `json:"fileSize"`
	FileURL     string     `json:"fileUrl,omitempty"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
	ReviewNote  string     `json:"reviewNote,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
}
