package utils

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Response is the standardized success envelope
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message,omitempty"`
}

// ErrorResponse is the standardized failure envelope
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// SendJSONResponse sends a JSON response with proper headers
// Sets Content-Type: application/json and handles encoding consistently
func SendJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Log encoding errors but don't expose to client
		zap.S().Errorf("Failed to encode JSON response: %v", err)
	}
}

// SendSuccessResponse sends a standardized success response
// Use this for all successful responses to maintain consistency
func SendSuccessResponse(w http.ResponseWriter, data interface{}, message string) {
	SendJSONResponse(w, http.StatusOK, Response{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	})
}

// SendErrorResponse sends a standardized error response
// Use this for all error responses to maintain consistency
func SendErrorResponse(w http.ResponseWriter, status int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	SendJSONResponse(w, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     errs,
	})
}

// SendAppError maps an application error to the failure envelope using the
// one-status-per-code table from errors.go
func SendAppError(w http.ResponseWriter, err error, message string) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorf("%s: %v", message, err)
	}
	SendErrorResponse(w, status, message, ErrorStrings(err)...)
}

var hexIDPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidUUID reports whether id is a well-formed UUID. Comments, tweets,
// likes, playlists and subscriptions are keyed by UUID.
func ValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidContentID reports whether id is a well-formed content identifier
// (64 lowercase hex chars, the blake3-derived form videos use).
func ValidContentID(id string) bool {
	return hexIDPattern.MatchString(id)
}
