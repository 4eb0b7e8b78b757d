package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Likes "github.com/i-amankitsingh/chai-backend/Events/Likes"
	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

const commentColumns = "comment_id, video_id, owner, content, created_at, updated_at"

func Handle(req chi.Router) {
	req.Patch("/{commentID}", Update)
	req.Delete("/{commentID}", Delete)

	req.Post("/{commentID}/like", Likes.ToggleCommentLike)
}

func scanComment(row interface{ Scan(...any) error }) (Comment, error) {
	var c Comment
	err := row.Scan(&c.CommentID, &c.VideoID, &c.Owner, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListForVideo returns one page of comments for a video plus the total
// count. An empty page is a normal response, not an error.
func ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := chi.URLParam(r, "videoID")
	if !Utils.ValidContentID(videoID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	p := Utils.ParsePagination(r, "created_at", "updated_at")

	rows, err := Mdb.DB.Query(ctx,
		fmt.Sprintf("SELECT %s FROM comments WHERE video_id = $1 %s LIMIT %d OFFSET %d",
			commentColumns, p.OrderBy(), p.Limit, p.Offset()),
		videoID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForVideo: failed to query comments"), "Failed to fetch comments")
		return
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForVideo: failed to scan comment"), "Failed to fetch comments")
			return
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForVideo: failed to iterate comments"), "Failed to fetch comments")
		return
	}

	var total int
	if err := Mdb.DB.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE video_id = $1", videoID).Scan(&total); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForVideo: failed to count comments"), "Failed to fetch comments")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{
		"totalComment": total,
		"comments":     comments,
	}, "Comments fetched successfully")
}

// Add creates a comment on a video
func Add(w http.ResponseWriter, r *http.Request) {
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

	var body CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode comment")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Empty comment, please comment something")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`INSERT INTO comments (comment_id, video_id, owner, content)
		VALUES ($1, $2, $3, $4)
		RETURNING `+commentColumns,
		uuid.New().String(), videoID, claims.UID, body.Content,
	)
	comment, err := scanComment(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Add: failed to insert comment"), "Failed to add comment")
		return
	}

	Utils.SendSuccessResponse(w, comment, "Comment added successfully")
}

// Update changes a comment's content. Only the owner may update.
func Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID := chi.URLParam(r, "commentID")
	if !Utils.ValidUUID(commentID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var body CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode comment")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Empty comment, please comment something")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE comments SET content = $1, updated_at = now()
		WHERE comment_id = $2 AND owner = $3
		RETURNING `+commentColumns,
		body.Content, commentID, claims.UID,
	)
	comment, err := scanComment(row)
	if err != nil {
		sendOwnershipError(w, ctx, commentID, err, "Update")
		return
	}

	Utils.SendSuccessResponse(w, comment, "Comment updated successfully")
}

// Delete removes a comment. Only the owner may delete.
func Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID := chi.URLParam(r, "commentID")
	if !Utils.ValidUUID(commentID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	tag, err := Mdb.DB.Exec(ctx,
		"DELETE FROM comments WHERE comment_id = $1 AND owner = $2",
		commentID, claims.UID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Delete: failed to delete comment"), "Failed to delete comment")
		return
	}
	if tag.RowsAffected() == 0 {
		sendOwnershipError(w, ctx, commentID, nil, "Delete")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{}, "Comment deleted successfully")
}

// sendOwnershipError distinguishes "no such comment" from "not your comment"
func sendOwnershipError(w http.ResponseWriter, ctx context.Context, commentID string, err error, operation string) {
	exists, checkErr := Mdb.Exists(ctx, Mdb.DB, "comments", "comment_id", commentID)
	if checkErr == nil && exists {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You do not own this comment")
		return
	}
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, operation+": comment lookup failed"), "Comment not found")
		return
	}
	Utils.SendErrorResponse(w, http.StatusNotFound, "Comment not found")
}
