package tweets

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
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
)

const (
	testUID     = "0c2a914a-6a2d-4f4e-9d33-96e3d02f96d8"
	testTweetID = "7f1d2a3b-4c5d-6e7f-8091-a2b3c4d5e6f7"
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
	mux.Route("/tweets", Handle)
	mux.Get("/users/{userID}/tweets", ListForUser)
	return mux
}

func tweetRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"tweet_id", "owner", "content", "created_at", "updated_at"})
}

func TestCreateTweet(t *testing.T) {
	mock := setupDB(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO tweets").
		WithArgs(pgxmock.AnyArg(), testUID, "hello world").
		WillReturnRows(tweetRows().AddRow(testTweetID, testUID, "hello world", now, now))

	r := httptest.NewRequest("POST", "/tweets", strings.NewReader(`{"content":"hello world"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data    Tweet  `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hello world", body.Data.Content)
	assert.Equal(t, "Tweet created successfully", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTweetEmptyContent(t *testing.T) {
	mock := setupDB(t)

	r := httptest.NewRequest("POST", "/tweets", strings.NewReader(`{"content":""}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTweetUnauthorized(t *testing.T) {
	setupDB(t)

	r := httptest.NewRequest("POST", "/tweets", strings.NewReader(`{"content":"hi"}`))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListForUser(t *testing.T) {
	mock := setupDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT tweet_id, owner, content, created_at, updated_at FROM tweets WHERE owner = ").
		WithArgs(testUID).
		WillReturnRows(tweetRows().
			AddRow(testTweetID, testUID, "newest", now, now).
			AddRow("b2c3d4e5-f607-4819-a2b3-c4d5e6f70819", testUID, "older", now.Add(-time.Hour), now.Add(-time.Hour)))

	r := httptest.NewRequest("GET", "/users/"+testUID+"/tweets", nil)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []Tweet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "newest", body.Data[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserEmpty(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("FROM tweets WHERE owner = ").
		WithArgs(testUID).
		WillReturnRows(tweetRows())

	r := httptest.NewRequest("GET", "/users/"+testUID+"/tweets", nil)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"data":[]`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTweet(t *testing.T) {
	mock := setupDB(t)

	now := time.Now()
	mock.ExpectQuery("UPDATE tweets SET content").
		WithArgs("edited", testTweetID, testUID).
		WillReturnRows(tweetRows().AddRow(testTweetID, testUID, "edited", now, now))

	r := httptest.NewRequest("PATCH", "/tweets/"+testTweetID, strings.NewReader(`{"content":"edited"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTweetNotOwner(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery("UPDATE tweets SET content").
		WithArgs("edited", testTweetID, testUID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM tweets WHERE tweet_id = $1)",
	)).
		WithArgs(testTweetID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	r := httptest.NewRequest("PATCH", "/tweets/"+testTweetID, strings.NewReader(`{"content":"edited"}`))
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTweetNotFound(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectExec("DELETE FROM tweets").
		WithArgs(testTweetID, testUID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM tweets WHERE tweet_id = $1)",
	)).
		WithArgs(testTweetID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	r := httptest.NewRequest("DELETE", "/tweets/"+testTweetID, nil)
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTweet(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM tweets WHERE tweet_id = $1 AND owner = $2",
	)).
		WithArgs(testTweetID, testUID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	r := httptest.NewRequest("DELETE", "/tweets/"+testTweetID, nil)
	r.Header.Set("Authorization", authHeader(t, testUID))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Tweet deleted!", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
