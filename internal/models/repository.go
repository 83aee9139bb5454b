package models

import "time"

// RepositoryStatus is the publication lifecycle of a repository entry.
type RepositoryStatus string

const (
	RepositoryDraft     RepositoryStatus = "draft"
	RepositoryPublished RepositoryStatus = "published"
	RepositoryArchived  RepositoryStatus = "archived"
)

func (s RepositoryStatus) rank() int {
	switch s {
	case RepositoryDraft:
		return 1
	case RepositoryPublished:
		return 2
	case RepositoryArchived:
		return 3
	}
	return 0
}

// Valid reports whether s is a known status.
func (s RepositoryStatus) Valid() bool { return s.rank() > 0 }

// CanTransition allows forward moves for everyone; any other move between
// distinct known states requires an admin.
func (s RepositoryStatus) CanTransition(to RepositoryStatus, admin bool) bool {
	if !s.Valid() || !to.Valid() || s == to {
		return false
	}
	if to.rank() > s.rank() {
		return true
	}
	return admin
}

// RepositoryItem is the list representation of a repository document.
type RepositoryItem struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Category  string           `json:"category"`
	Status    RepositoryStatus `json:"status"`
	Link      string           `json:"link,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RepositoryDetail adds authorship and file metadata.
type RepositoryDetail struct {
	RepositoryItem
	Description   string   `json:"description"`
	Authors       []string `json:"authors,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FileName      string   `json:"fileName,omitempty"`
	FileSize      int64    `json:"fileSize,omitempty"`
	FileURL       string   `json:"fileUrl,omitempty"`
	DownloadCount int64    `json:"downloadCount"`
}

// RepositoryFilter narrows repository listings.
type RepositoryFilter struct {
	Search   string
	Category string
	Status   RepositoryStatus
	Page     int
	Limit    int
}

// RepositoryPayload is the create/update wire body.
type RepositoryPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Link        string   `json:"link,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RepositoryStatusPayload moves an entry through its lifecycle.
type RepositoryStatusPayload struct {
	Status RepositoryStatus `json:"status"`
}
