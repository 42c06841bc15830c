package models

import "time"

type Resource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	FileType    string    `json:"file_type"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResourceDownload records the first download per (user, resource). Repeat
// downloads only refresh DownloadedAt.
type ResourceDownload struct {
	UserID       int64     `json:"user_id"`
	ResourceID   int64     `json:"resource_id"`
	XPAwarded    bool      `json:"xp_awarded"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

type DownloadResponse struct {
	FileURL       string         `json:"file_url"`
	FirstDownload bool           `json:"first_download"`
	XPResult      *XPAwardResult `json:"xp_result,omitempty"`
}
