package tweets

import "time"

type Tweet struct {
	TweetID   string    `db:"tweet_id" json:"tweet_id"`
	Owner     string    `db:"owner" json:"owner"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TweetRequest is the body for creating or updating a tweet
type TweetRequest struct {
	Content string `json:"content"`
}
