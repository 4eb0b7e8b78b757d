package likes

import "time"

// Like points at exactly one of a video, comment or tweet
type Like struct {
	LikeID    string    `db:"like_id" json:"like_id"`
	LikedBy   string    `db:"liked_by" json:"liked_by"`
	VideoID   *string   `db:"video_id" json:"video_id,omitempty"`
	CommentID *string   `db:"comment_id" json:"comment_id,omitempty"`
	TweetID   *string   `db:"tweet_id" json:"tweet_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
