package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	blake3 "lukechampine.com/blake3"

	Comments "github.com/i-amankitsingh/chai-backend/Events/Comments"
	Likes "github.com/i-amankitsingh/chai-backend/Events/Likes"
	Search "github.com/i-amankitsingh/chai-backend/Events/Search"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	storage "github.com/i-amankitsingh/chai-backend/Services/Storage"
	Views "github.com/i-amankitsingh/chai-backend/Services/Views"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
)

const videoColumns = "video_id, owner, title, description, video_object, thumbnail_object, duration, views, is_published, created_at, updated_at"

const presignValidity = 20 * time.Minute

func Handle(req chi.Router) {
	req.Post("/", Create)
	req.Get("/", List)
	req.Get("/{videoID}", GetVideo)
	req.Patch("/{videoID}", Update)
	req.Delete("/{videoID}", Delete)
	req.Post("/{videoID}/ack", UploadACK)
	req.Patch("/{videoID}/publish", TogglePublish)

	req.Post("/{videoID}/like", Likes.ToggleVideoLike)
	req.Get("/{videoID}/comments", Comments.ListForVideo)
	req.Post("/{videoID}/comments", Comments.Add)
}

// NewVideoID derives a fresh content identifier for an upload
func NewVideoID(uid string) string {
	return fmt.Sprintf("%x", blake3.Sum256([]byte(uid+time.Now().Format(time.RFC3339)+uuid.New().String())))
}

func scanVideo(row interface{ Scan(...any) error }) (Video, error) {
	var v Video
	err := row.Scan(
		&v.VideoID, &v.Owner, &v.Title, &v.Description, &v.VideoObject,
		&v.ThumbnailObject, &v.Duration, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// Create registers a pending video and hands back presigned PUT URLs for the
// media and thumbnail objects. The video stays unpublished until the client
// acknowledges the uploads.
func Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode video")
		return
	}
	if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.Description) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Title and description are both required")
		return
	}

	video := Video{
		VideoID:     NewVideoID(claims.UID),
		Owner:       claims.UID,
		Title:       body.Title,
		Description: body.Description,
		Duration:    body.Duration,
	}
	video.VideoObject = "videos/" + video.VideoID
	video.ThumbnailObject = "thumbnails/videos/" + video.VideoID + ".jpg"

	_, err := Mdb.DB.Exec(ctx,
		`INSERT INTO videos (video_id, owner, title, description, video_object, thumbnail_object, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)`,
		video.VideoID, video.Owner, video.Title, video.Description,
		video.VideoObject, video.ThumbnailObject, video.Duration,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Create: failed to insert video"), "Failed to create video")
		return
	}

	uploadURL, err := storage.GeneratePresignedUploadURL(ctx, video.VideoObject, presignValidity)
	if err != nil {
		zap.S().Errorf("Create: failed to generate presigned upload URL: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to generate presigned upload URL")
		return
	}

	thumbnailUploadURL, err := storage.GeneratePresignedUploadURL(ctx, video.ThumbnailObject, presignValidity)
	if err != nil {
		zap.S().Errorf("Create: failed to generate presigned upload URL for thumbnail: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to generate presigned upload URL for thumbnail")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{
		"video_id":              video.VideoID,
		"gateway_url":           uploadURL,
		"gateway_url_thumbnail": thumbnailUploadURL,
	}, "Video created, upload the media to publish it")
}

// UploadACK verifies both objects landed in storage and publishes the video
func UploadACK(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	videoObjectKey := "videos/" + videoID
	thumbnailObjectKey := "thumbnails/videos/" + videoID + ".jpg"

	videoExists, err := storage.IsFileExists(ctx, videoObjectKey)
	if err != nil {
		zap.S().Errorf("UploadACK: failed to check video object: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to verify upload")
		return
	}
	thumbnailExists, err := storage.IsFileExists(ctx, thumbnailObjectKey)
	if err != nil {
		zap.S().Errorf("UploadACK: failed to check thumbnail object: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to verify upload")
		return
	}
	if !videoExists || !thumbnailExists {
		Utils.SendErrorResponse(w, http.StatusNotFound, "Video file and thumbnail both are required")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE videos SET is_published = true, updated_at = now()
		WHERE video_id = $1 AND owner = $2
		RETURNING `+videoColumns,
		videoID, claims.UID,
	)
	video, err := scanVideo(row)
	if err != nil {
		sendOwnershipError(w, ctx, videoID, err, "UploadACK")
		return
	}

	indexVideo(ctx, video)

	Utils.SendSuccessResponse(w, video, "Video uploaded successfully")
}

// List returns one page of videos plus the total count. Unpublished videos
// only show up when the requester filters by their own userId.
func List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)

	p := Utils.ParsePagination(r, "created_at", "views", "title", "duration")

	conds := []string{}
	args := []any{}

	if userID := r.URL.Query().Get("userId"); userID != "" {
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("owner = $%d", len(args)))
		if !auth || claims.UID != userID {
			conds = append(conds, "is_published = true")
		}
	} else {
		conds = append(conds, "is_published = true")
	}

	where := "WHERE " + strings.Join(conds, " AND ")

	rows, err := Mdb.DB.Query(ctx,
		fmt.Sprintf("SELECT %s FROM videos %s %s LIMIT %d OFFSET %d",
			videoColumns, where, p.OrderBy(), p.Limit, p.Offset()),
		args...,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "List: failed to query videos"), "Failed to fetch videos")
		return
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			Utils.SendAppError(w, Mdb.ClassifyError(err, "List: failed to scan video"), "Failed to fetch videos")
			return
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "List: failed to iterate videos"), "Failed to fetch videos")
		return
	}

	var total int
	if err := Mdb.DB.QueryRow(ctx, "SELECT COUNT(*) FROM videos "+where, args...).Scan(&total); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "List: failed to count videos"), "Failed to fetch videos")
		return
	}

	Utils.SendSuccessResponse(w, Utils.PagedResult{Items: videos, TotalCount: total}, "Video data fetched successfully")
}

// GetVideo fetches a single video and records a view
func GetVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM videos WHERE video_id = $1", videoColumns), videoID)
	video, err := scanVideo(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "GetVideo: failed to fetch video"), "Video not found")
		return
	}

	// pending uploads are visible to their owner only
	if !video.IsPublished && (!auth || claims.UID != video.Owner) {
		Utils.SendErrorResponse(w, http.StatusNotFound, "Video not found")
		return
	}

	if err := Views.Record(ctx, video.VideoID); err != nil {
		zap.S().Warnf("GetVideo: failed to record view: %v", err)
	}

	response := map[string]interface{}{
		"video": video,
	}

	if storage.IsEnabled() {
		if videoURL, err := storage.GeneratePresignedGetURL(ctx, video.VideoObject, presignValidity); err == nil {
			response["video_url"] = videoURL
		} else {
			zap.S().Warnf("GetVideo: failed to presign video URL: %v", err)
		}
		if thumbnailURL, err := storage.GeneratePresignedGetURL(ctx, video.ThumbnailObject, presignValidity); err == nil {
			response["thumbnail_url"] = thumbnailURL
		} else {
			zap.S().Warnf("GetVideo: failed to presign thumbnail URL: %v", err)
		}
	}

	Utils.SendSuccessResponse(w, response, "Video found")
}

// Update changes title and description. Only the owner may update.
func Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var body UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode video update")
		return
	}
	if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.Description) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Title and description are both required")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE videos SET title = $1, description = $2, updated_at = now()
		WHERE video_id = $3 AND owner = $4
		RETURNING `+videoColumns,
		body.Title, body.Description, videoID, claims.UID,
	)
	video, err := scanVideo(row)
	if err != nil {
		sendOwnershipError(w, ctx, videoID, err, "Update")
		return
	}

	if video.IsPublished {
		indexVideo(ctx, video)
	}

	Utils.SendSuccessResponse(w, video, "Video details updated successfully")
}

// Delete removes the video row (comments, likes and playlist references go
// with it via cascade), then cleans up the storage objects and search doc
func Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`DELETE FROM videos WHERE video_id = $1 AND owner = $2
		RETURNING video_object, thumbnail_object`,
		videoID, claims.UID,
	)
	var videoObject, thumbnailObject string
	if err := row.Scan(&videoObject, &thumbnailObject); err != nil {
		sendOwnershipError(w, ctx, videoID, err, "Delete")
		return
	}

	// storage and search cleanup are best effort once the row is gone
	if storage.IsEnabled() {
		if err := storage.DeleteFile(ctx, videoObject); err != nil {
			zap.S().Warnf("Delete: failed to delete video object: %v", err)
		}
		if err := storage.DeleteFile(ctx, thumbnailObject); err != nil {
			zap.S().Warnf("Delete: failed to delete thumbnail object: %v", err)
		}
	}
	if err := Search.RemoveVideo(ctx, videoID); err != nil {
		zap.S().Warnf("Delete: failed to remove video from search index: %v", err)
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{}, "Video deleted successfully")
}

// TogglePublish flips the published flag in a single statement
func TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE videos SET is_published = NOT is_published, updated_at = now()
		WHERE video_id = $1 AND owner = $2
		RETURNING `+videoColumns,
		videoID, claims.UID,
	)
	video, err := scanVideo(row)
	if err != nil {
		sendOwnershipError(w, ctx, videoID, err, "TogglePublish")
		return
	}

	if video.IsPublished {
		indexVideo(ctx, video)
	} else {
		if err := Search.RemoveVideo(ctx, video.VideoID); err != nil {
			zap.S().Warnf("TogglePublish: failed to remove video from search index: %v", err)
		}
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{
		"isPublished": video.IsPublished,
	}, "Video publish state updated successfully")
}

// sendOwnershipError distinguishes "no such video" from "not your video"
// after an owner-scoped mutation came back empty
func sendOwnershipError(w http.ResponseWriter, ctx context.Context, videoID string, err error, operation string) {
	exists, checkErr := Mdb.Exists(ctx, Mdb.DB, "videos", "video_id", videoID)
	if checkErr == nil && exists {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You do not own this video")
		return
	}
	Utils.SendAppError(w, Mdb.ClassifyError(err, operation+": video lookup failed"), "Video not found")
}

func indexVideo(ctx context.Context, video Video) {
	if err := Search.IndexVideo(ctx, video.VideoID, video.Owner, video.Title, video.Description); err != nil {
		zap.S().Warnf("Failed to index video %s: %v", video.VideoID, err)
	}
}
