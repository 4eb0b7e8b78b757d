package comments

import "time"

type Comment struct {
	CommentID string    `db:"comment_id" json:"comment_id"`
	VideoID   string    `db:"video_id" json:"video_id"`
	Owner     string    `db:"owner" json:"owner"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CommentRequest is the body for adding or updating a comment
type CommentRequest struct {
	Content string `json:"content"`
}
