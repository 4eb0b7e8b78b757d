package comments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
)

const (
	testUID       = "0c2a914a-6a2d-4f4e-9d33-96e3d02f96d8"
	testVideoID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testCommentID = "7f1d2a3b-4c5d-6e7f-8091-a2b3c4d5e6f7"
)

func setupDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	Mdb.DB = mock
	t.Cleanup(func() { Mdb.DB = nil })
	return mock
}

func authHeader(t *testing.T, uid string) string {
	t.Helper()
	Auth.JWTSecret = []byte("test-secret")
	token, err := Auth.GenerateToken(uid)
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter() chi.Router {
	mux := chi.NewRouter()
	mux.Route("/comments", Handle)
	mux.Get("/videos/{videoID}/comments", ListForVideo)
	mux.Post("/videos/{videoID}/comments", Add)
	return mux
}

func commentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"comment_id", "video_id", "owner", "content", "created_at", "updated_at"})
}

func TestListForVideo(t *testing.T) {
	mock := setupDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT comment_id, video_id, owner, content, created_at, updated_at FROM comments WHERE video_id = ").
		WithArgs(testVideoID).
		WillReturnRows(commentRows().
			AddRow(testCommentID, testVideoID, testUID, "nice video", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM comments WHERE video_id = $1")).
		WithArgs(testVideoID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	r := httptest.NewRequest("GET", "/videos/"+testVideoID+"/comments", nil)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TotalComment int       `json:"totalComment"`
			Comments     []Comment `json:"comments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 12, body.Data.TotalComment)
	require.Len(t, body.Data.Comments, 1)
	assert.Equal(t, "nice video", body.Data.Comments[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForVideoEmptyPage(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("SELECT comment_id, video_id, owner, content, created_at, updated_at FROM comments").
		WithArgs(testVideoID).
		WillReturnRows(commentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(testVideoID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	r := httptest.NewRequest("GET", "/videos/"+testVideoID+"/comments?page=5", nil)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"comments":[]`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment(t *testing.T) {
	mock := setupDB(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(pgxmock.AnyArg(), testVideoID, testUID, "first!").
		WillReturnRows(commentRows().
			AddRow(testCommentID, testVideoID, testUID, "first!", now, now))

	r := httptest.NewRequest("POST", "/videos/"+testVideoID+"/comments",
		strings.NewReader(`{"content":"first!"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "first!", body.Data.Content)
	assert.Equal(t, testUID, body.Data.Owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentEmptyContent(t *testing.T) {
	mock := setupDB(t)

	r := httptest.NewRequest("POST", "/videos/"+testVideoID+"/comments",
		strings.NewReader(`{"content":"   "}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentMissingVideo(t *testing.T) {
	mock := setupDB(t)

	// the FK on comments.video_id rejects comments on deleted videos
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(pgxmock.AnyArg(), testVideoID, testUID, "too late").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	r := httptest.NewRequest("POST", "/videos/"+testVideoID+"/comments",
		strings.NewReader(`{"content":"too late"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommentNotOwner(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("UPDATE comments SET content").
		WithArgs("edited", testCommentID, testUID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM comments WHERE comment_id = $1)",
	)).
		WithArgs(testCommentID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	r := httptest.NewRequest("PATCH", "/comments/"+testCommentID,
		strings.NewReader(`{"content":"edited"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComment(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM comments WHERE comment_id = $1 AND owner = $2",
	)).
		WithArgs(testCommentID, testUID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	r := httptest.NewRequest("DELETE", "/comments/"+testCommentID, nil)
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentNotFound(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectExec("DELETE FROM comments").
		WithArgs(testCommentID, testUID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM comments WHERE comment_id = $1)",
	)).
		WithArgs(testCommentID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	r := httptest.NewRequest("DELETE", "/comments/"+testCommentID, nil)
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommentInvalidID(t *testing.T) {
	mock := setupDB(t)

	r := httptest.NewRequest("PATCH", "/comments/nope",
		strings.NewReader(`{"content":"edited"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
