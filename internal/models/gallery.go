package models

import "time"

// GalleryItem is the list representation of a gallery photo.
type GalleryItem struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Title  string `json:"title"`
	Image  string `json:"image"`
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GalleryDetail extends GalleryItem with descriptive metadata.
type GalleryDetail struct {
	GalleryItem
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	UploadedBy  string     `json:"uploadedBy,omitempty"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
	ViewCount   int64      `json:"viewCount,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
}

// GalleryFilter narrows gallery listings.
type GalleryFilter struct {
	Search string
	Tag    string
	Year   int
	Page   int
	Limit  int
}

// CreateGalleryRequest is the create/update wire body.
type CreateGalleryRequest struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Link        string   `json:"link"`
	Image       string   `json:"image"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
