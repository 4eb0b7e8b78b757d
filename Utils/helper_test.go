package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccessResponseEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	SendSuccessResponse(w, map[string]interface{}{"liked": true}, "You liked this video!")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Equal(t, "You liked this video!", body["message"])
	assert.Equal(t, map[string]interface{}{"liked": true}, body["data"])
}

func TestSendErrorResponseEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	SendErrorResponse(w, http.StatusNotFound, "Video not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, "Video not found", body["message"])
	// errors is always present, even when empty
	assert.Equal(t, []interface{}{}, body["errors"])
}

func TestSendAppErrorUsesCodeStatus(t *testing.T) {
	w := httptest.NewRecorder()

	SendAppError(w, NewError(CodeForbidden, "actor is not the owner"), "You do not own this video")

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "You do not own this video", body["message"])
	assert.Equal(t, []interface{}{"actor is not the owner"}, body["errors"])
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{CodeInvalidReference, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeDependency, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(NewError(tc.code, "x")), tc.code)
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, ValidUUID("0c2a914a-6a2d-4f4e-9d33-96e3d02f96d8"))
	assert.False(t, ValidUUID("not-a-uuid"))
	assert.False(t, ValidUUID(""))
}

func TestValidContentID(t *testing.T) {
	assert.True(t, ValidContentID("a3f1c2d4e5b6a7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f70"))
	assert.False(t, ValidContentID("A3F1C2D4E5B6A7F8091A2B3C4D5E6F708192A3B4C5D6E7F8091A2B3C4D5E6F70"))
	assert.False(t, ValidContentID("a3f1"))
	assert.False(t, ValidContentID("0c2a914a-6a2d-4f4e-9d33-96e3d02f96d8"))
}
