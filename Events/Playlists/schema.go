package playlists

import "time"

type Playlist struct {
	PlaylistID  string    `db:"playlist_id" json:"playlist_id"`
	Owner       string    `db:"owner" json:"owner"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	// Videos holds the ordered video ids, filled when a single playlist is
	// fetched
	Videos    []string  `json:"videos,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlaylistRequest is the body for creating or updating a playlist
type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
