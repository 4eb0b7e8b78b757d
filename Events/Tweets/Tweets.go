package tweets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Likes "github.com/i-amankitsingh/chai-backend/Events/Likes"
	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

const tweetColumns = "tweet_id, owner, content, created_at, updated_at"

func Handle(req chi.Router) {
	req.Post("/", Create)
	req.Patch("/{tweetID}", Update)
	req.Delete("/{tweetID}", Delete)

	req.Post("/{tweetID}/like", Likes.ToggleTweetLike)
}

func scanTweet(row interface{ Scan(...any) error }) (Tweet, error) {
	var t Tweet
	err := row.Scan(&t.TweetID, &t.Owner, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create posts a new tweet for the acting user
func Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body TweetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode tweet")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Empty tweet, please write something in tweet")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`INSERT INTO tweets (tweet_id, owner, content)
		VALUES ($1, $2, $3)
		RETURNING `+tweetColumns,
		uuid.New().String(), claims.UID, body.Content,
	)
	tweet, err := scanTweet(row)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Create: failed to insert tweet"), "Failed to create tweet")
		return
	}

	Utils.SendSuccessResponse(w, tweet, "Tweet created successfully")
}

// ListForUser returns all tweets by one user, newest first
func ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := chi.URLParam(r, "userID")
	if !Utils.ValidUUID(userID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rows, err := Mdb.DB.Query(ctx,
		"SELECT "+tweetColumns+" FROM tweets WHERE owner = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to query tweets"), "Failed to fetch tweets")
		return
	}
	defer rows.Close()

	tweets := []Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to scan tweet"), "Failed to fetch tweets")
			return
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "ListForUser: failed to iterate tweets"), "Failed to fetch tweets")
		return
	}

	Utils.SendSuccessResponse(w, tweets, "Tweets fetched successfully")
}

// Update changes a tweet's content. Only the owner may update.
func Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tweetID := chi.URLParam(r, "tweetID")
	if !Utils.ValidUUID(tweetID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	var body TweetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Failed to decode tweet")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Please write something in tweet")
		return
	}

	row := Mdb.DB.QueryRow(ctx,
		`UPDATE tweets SET content = $1, updated_at = now()
		WHERE tweet_id = $2 AND owner = $3
		RETURNING `+tweetColumns,
		body.Content, tweetID, claims.UID,
	)
	tweet, err := scanTweet(row)
	if err != nil {
		sendOwnershipError(w, ctx, tweetID, err, "Update")
		return
	}

	Utils.SendSuccessResponse(w, tweet, "Tweet updated successfully")
}

// Delete removes a tweet. Only the owner may delete.
func Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tweetID := chi.URLParam(r, "tweetID")
	if !Utils.ValidUUID(tweetID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tag, err := Mdb.DB.Exec(ctx,
		"DELETE FROM tweets WHERE tweet_id = $1 AND owner = $2",
		tweetID, claims.UID,
	)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Delete: failed to delete tweet"), "Failed to delete tweet")
		return
	}
	if tag.RowsAffected() == 0 {
		sendOwnershipError(w, ctx, tweetID, nil, "Delete")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{}, "Tweet deleted!")
}

// sendOwnershipError distinguishes "no such tweet" from "not your tweet"
func sendOwnershipError(w http.ResponseWriter, ctx context.Context, tweetID string, err error, operation string) {
	exists, checkErr := Mdb.Exists(ctx, Mdb.DB, "tweets", "tweet_id", tweetID)
	if checkErr == nil && exists {
		Utils.SendErrorResponse(w, http.StatusForbidden, "You do not own this tweet")
		return
	}
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, operation+": tweet lookup failed"), "Tweet not found")
		return
	}
	Utils.SendErrorResponse(w, http.StatusNotFound, "Tweet not found")
}
