package likes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

// one relation descriptor per like target kind, each scoped by its partial
// unique index from the schema
var (
	videoLikes = Mdb.Relation{
		Table:     "likes",
		IDColumn:  "like_id",
		Columns:   []string{"liked_by", "video_id"},
		Predicate: "video_id IS NOT NULL",
	}
	commentLikes = Mdb.Relation{
		Table:     "likes",
		IDColumn:  "like_id",
		Columns:   []string{"liked_by", "comment_id"},
		Predicate: "comment_id IS NOT NULL",
	}
	tweetLikes = Mdb.Relation{
		Table:     "likes",
		IDColumn:  "like_id",
		Columns:   []string{"liked_by", "tweet_id"},
		Predicate: "tweet_id IS NOT NULL",
	}
)

func Handle(req chi.Router) {
	req.Get("/videos", ListLikedVideos)
}

// ToggleVideoLike likes or unlikes a video for the acting user
func ToggleVideoLike(w http.ResponseWriter, r *http.Request) {
	toggle(w, r, videoLikes, "videoID", Utils.ValidContentID, "video")
}

// ToggleCommentLike likes or unlikes a comment for the acting user
func ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	toggle(w, r, commentLikes, "commentID", Utils.ValidUUID, "comment")
}

// ToggleTweetLike likes or unlikes a tweet for the acting user
func ToggleTweetLike(w http.ResponseWriter, r *http.Request) {
	toggle(w, r, tweetLikes, "tweetID", Utils.ValidUUID, "tweet")
}

func toggle(w http.ResponseWriter, r *http.Request, rel Mdb.Relation, param string, validID func(string) bool, kind string) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID := chi.URLParam(r, param)
	if !validID(targetID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid "+kind+" ID")
		return
	}

	created, err := Mdb.ToggleRelation(ctx, Mdb.DB, rel, uuid.New().String(), claims.UID, targetID)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "toggle: failed to toggle "+kind+" like"), "Failed to toggle like")
		return
	}

	if created {
		Utils.SendSuccessResponse(w, map[string]interface{}{"liked": true}, "You liked this "+kind+"!")
		return
	}
	Utils.SendSuccessResponse(w, map[string]interface{}{"liked": false}, "You unliked this "+kind+"!")
}

// ListLikedVideos returns the acting user's video likes, newest first. An
// empty list is a normal response.
func ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rows, err := Mdb.DB.Query(ctx,
		`SELECT like_id, liked_by, video_id, comment_id, tweet_id, created_at
		FROM likes
		WHERE liked_by = $1 AND video_id IS NOT NULL
		ORDER BY created_at DESC`,
		claims.UID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListLikedVideos: failed to query likes"), "Failed to fetch liked videos")
		return
	}
	defer rows.Close()

	liked := []Like{}
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.LikeID, &l.LikedBy, &l.VideoID, &l.CommentID, &l.TweetID, &l.CreatedAt); err != nil {
			Utils.SendAppError(w, Mdb.ClassifyError(err, "ListLikedVideos: failed to scan like"), "Failed to fetch liked videos")
			return
		}
		liked = append(liked, l)
	}
	if err := rows.Err(); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListLikedVideos: failed to iterate likes"), "Failed to fetch liked videos")
		return
	}

	Utils.SendSuccessResponse(w, liked, "Liked videos fetched successfully")
}
