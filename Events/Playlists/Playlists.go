package playlists

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

const playlistColumns = "playlist_id, owner, name, description, created_at, updated_at"

func Handle(req chi.Router) {
	req.Post("/", Create)
	req.Get("/{playlistID}", Get)
	req.Patch("/{playlistID}", Update)
	req.Delete("/{playlistID}", Delete)
	req.Patch("/{playlistID}/videos/{videoID}", AddVideo)
	req.Delete("/{playlistID}/videos/{videoID}", RemoveVideo)
}

func scanPlaylist(row interface{ Scan(...any) error }) (Playlist, error) {
	var p Playlist
	err := row.Scan(&p.PlaylistID, &p.Owner, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create makes a new empty playlist for the acting user
func Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode playlist")
		return
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Description) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Name and description are both required")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`INSERT INTO playlists (playlist_id, owner, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+playlistColumns,
		uuid.New().String(), claims.UID, body.Name, body.Description,
	)
	playlist, err := scanPlaylist(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Create: failed to insert playlist"), "Failed to create playlist")
		return
	}

	Utils.SendSuccessResponse(w, playlist, "Playlist created successfully")
}

// ListForUser returns all playlists owned by one user
func ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := chi.URLParam(r, "userID")
	if !Utils.ValidUUID(userID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rows, err := Mdb.DB.Query(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE owner = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to query playlists"), "Failed to fetch playlists")
		return
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to scan playlist"), "Failed to fetch playlists")
			return
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to iterate playlists"), "Failed to fetch playlists")
		return
	}

	Utils.SendSuccessResponse(w, playlists, "User playlists fetched successfully")
}

// Get fetches one playlist with its ordered video ids
func Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID := chi.URLParam(r, "playlistID")
	if !Utils.ValidUUID(playlistID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE playlist_id = $1", playlistID)
	playlist, err := scanPlaylist(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Get: failed to fetch playlist"), "Playlist not found")
		return
	}

	videos, err := playlistVideos(ctx, playlistID)
	if err != nil {
		Utils.SendAppError(w, err, "Failed to fetch playlist videos")
		return
	}
	playlist.Videos = videos

	Utils.SendSuccessResponse(w, playlist, "Playlist fetched successfully")
}

// Update changes name and description. Only the owner may update.
func Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := chi.URLParam(r, "playlistID")
	if !Utils.ValidUUID(playlistID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var body PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode playlist")
		return
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Description) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Name and description are both required")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE playlists SET name = $1, description = $2, updated_at = now()
		WHERE playlist_id = $3 AND owner = $4
		RETURNING `+playlistColumns,
		body.Name, body.Description, playlistID, claims.UID,
	)
	playlist, err := scanPlaylist(row)
	if err != nil {
		sendOwnershipError(w, ctx, playlistID, err, "Update")
		return
	}

	Utils.SendSuccessResponse(w, playlist, "Playlist information updated successfully")
}

// Delete removes a playlist and its video references. Only the owner may
// delete.
func Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := chi.URLParam(r, "playlistID")
	if !Utils.ValidUUID(playlistID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	tag, err := Mdb.DB.Exec(ctx,
		"DELETE FROM playlists WHERE playlist_id = $1 AND owner = $2",
		playlistID, claims.UID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Delete: failed to delete playlist"), "Failed to delete playlist")
		return
	}
	if tag.RowsAffected() == 0 {
		sendOwnershipError(w, ctx, playlistID, nil, "Delete")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{}, "Playlist deleted successfully")
}

// AddVideo appends a video to the playlist. The composite primary key on
// playlist_videos turns a duplicate add into a conflict instead of a
// silent second entry.
func AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := chi.URLParam(r, "playlistID")
	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidUUID(playlistID) || !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid playlist ID or video ID")
		return
	}

	if !requireOwnership(w, ctx, playlistID, claims.UID) {
		return
	}

	_, err := Mdb.DB.Exec(ctx,
		`INSERT INTO playlist_videos (playlist_id, video_id, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1))`,
		playlistID, videoID,
	)
	if err != nil {
		appErr := Mdb.ClassifyError(err, "AddVideo: failed to insert playlist video")
		if appErr.Code == Utils.CodeConflict {
			Utils.SendErrorResponse(w, http.StatusConflict, "Video already added to the playlist")
			return
		}
		Utils.SendAppError(w, appErr, "Failed to add video to playlist")
		return
	}

	sendPlaylistWithVideos(w, ctx, playlistID, "Video added to playlist successfully")
}

// RemoveVideo takes a video out of the playlist. Only the owner may modify.
func RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := chi.URLParam(r, "playlistID")
	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidUUID(playlistID) || !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid playlist ID or video ID")
		return
	}

	if !requireOwnership(w, ctx, playlistID, claims.UID) {
		return
	}

	tag, err := Mdb.DB.Exec(ctx,
		"DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2",
		playlistID, videoID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "RemoveVideo: failed to delete playlist video"), "Failed to remove video from playlist")
		return
	}
	if tag.RowsAffected() == 0 {
		Utils.SendErrorResponse(w, http.StatusNotFound, "Video not found in playlist")
		return
	}

	sendPlaylistWithVideos(w, ctx, playlistID, "Video removed from playlist successfully")
}

// sendOwnershipError distinguishes a playlist that exists but belongs to
// someone else from one that does not exist at all
func sendOwnershipError(w http.ResponseWriter, ctx context.Context, playlistID string, err error, operation string) {
	exists, checkErr := Mdb.Exists(ctx, Mdb.DB, "playlists", "playlist_id", playlistID)
	if checkErr == nil && exists {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You do not own this playlist")
		return
	}
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, operation+": playlist lookup failed"), "Playlist not found")
		return
	}
	Utils.SendErrorResponse(w, http.StatusNotFound, "Playlist not found")
}

// requireOwnership loads the playlist owner and rejects the request when the
// playlist is missing or owned by someone else
func requireOwnership(w http.ResponseWriter, ctx context.Context, playlistID, uid string) bool {
	var owner string
	err := Mdb.DB.QueryRow(ctx, "SELECT owner FROM playlists WHERE playlist_id = $1", playlistID).Scan(&owner)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "requireOwnership: failed to fetch playlist"), "Playlist not found")
		return false
	}
	if owner != uid {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You do not own this playlist")
		return false
	}
	return true
}

func playlistVideos(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := Mdb.DB.Query(ctx,
		"SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position",
		playlistID,
	)
	if err != nil {
		return nil, Mdb.ClassifyError(err, "playlistVideos: failed to query playlist videos")
	}
	defer rows.Close()

	videos := []string{}
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, Mdb.ClassifyError(err, "playlistVideos: failed to scan playlist video")
		}
		videos = append(videos, videoID)
	}
	if err := rows.Err(); err != nil {
		return nil, Mdb.ClassifyError(err, "playlistVideos: failed to iterate playlist videos")
	}

	return videos, nil
}

func sendPlaylistWithVideos(w http.ResponseWriter, ctx context.Context, playlistID, message string) {
	row := Mdb.DB.QueryRow(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE playlist_id = $1", playlistID)
	playlist, err := scanPlaylist(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "sendPlaylistWithVideos: failed to fetch playlist"), "Playlist not found")
		return
	}

	videos, err := playlistVideos(ctx, playlistID)
	if err != nil {
		Utils.SendAppError(w, err, "Failed to fetch playlist videos")
		return
	}
	playlist.Videos = videos

	Utils.SendSuccessResponse(w, playlist, message)
}
