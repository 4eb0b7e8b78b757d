package videos

import "time"

type Video struct {
	VideoID         string    `db:"video_id" json:"video_id"`
	Owner           string    `db:"owner" json:"owner"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	VideoObject     string    `db:"video_object" json:"video_object"`
	ThumbnailObject string    `db:"thumbnail_object" json:"thumbnail_object"`
	Duration        float64   `db:"duration" json:"duration"`
	Views           int64     `db:"views" json:"views"`
	IsPublished     bool      `db:"is_published" json:"is_published"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the body for POST /videos
type CreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
}

// UpdateRequest is the body for PATCH /videos/{videoID}
type UpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
