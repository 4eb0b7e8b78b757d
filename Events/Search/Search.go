package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	ES "github.com/i-amankitsingh/chai-backend/Services/Elasticsearch"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

// Handle sets up the routes for search endpoints
func Handle(r chi.Router) {
	r.Get("/videos/{query}", SearchVideosHandler)
}

// SearchVideosHandler handles HTTP requests for searching videos
func SearchVideosHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := chi.URLParam(r, "query")
	if query == "" {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	// Parse limit from query params (optional, default 10, max 100)
	limitStr := r.URL.Query().Get("limit")
	limit := 10
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			if l > 0 && l <= 100 {
				limit = l
			} else if l > 100 {
				limit = 100
			}
		}
	}

	results, err := SearchVideos(ctx, query, limit)
	if err != nil {
		zap.S().Errorf("SearchVideosHandler: failed to search videos: %v", err)
		Utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to search videos")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{
		"videos": results,
		"query":  query,
		"limit":  limit,
		"count":  len(results),
	}, "Videos fetched successfully")
}

// IndexVideo indexes a video document in Elasticsearch
func IndexVideo(ctx context.Context, videoID, owner, title, description string) error {
	if !ES.IsESEnabled() {
		return nil // Silently skip if Elasticsearch is not enabled
	}

	doc := map[string]interface{}{
		"video_id":    videoID,
		"owner":       owner,
		"title":       title,
		"description": description,
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal video document: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_doc/%s", ES.GetESBaseURL(), ES.GetVideosIndex(), videoID)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewBuffer(docJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ES.GetESClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to index video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to index video: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// RemoveVideo deletes a video document from Elasticsearch
func RemoveVideo(ctx context.Context, videoID string) error {
	if !ES.IsESEnabled() {
		return nil // Silently skip if Elasticsearch is not enabled
	}

	url := fmt.Sprintf("%s/%s/_doc/%s", ES.GetESBaseURL(), ES.GetVideosIndex(), videoID)
	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := ES.GetESClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	defer resp.Body.Close()

	// 404 is acceptable (document doesn't exist)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete video: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// SearchVideos searches for videos by title or description
func SearchVideos(ctx context.Context, query string, limit int) ([]map[string]interface{}, error) {
	if !ES.IsESEnabled() {
		return nil, fmt.Errorf("elasticsearch is not enabled")
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "description^2"},
			},
		},
		"size": limit,
	}

	searchJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search", ES.GetESBaseURL(), ES.GetVideosIndex())
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(searchJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ES.GetESClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		// Index exists but shards aren't ready on a fresh cluster, so
		// return empty results instead of an error
		if resp.StatusCode == http.StatusServiceUnavailable {
			var esError map[string]interface{}
			if json.Unmarshal(body, &esError) == nil {
				if errorObj, ok := esError["error"].(map[string]interface{}); ok {
					if errorType, ok := errorObj["type"].(string); ok && errorType == "search_phase_execution_exception" {
						zap.S().Warnf("SearchVideos: Elasticsearch shards not ready, returning empty results")
						return []map[string]interface{}{}, nil
					}
				}
			}
		}

		return nil, fmt.Errorf("failed to search videos: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}

	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}

	results := make([]map[string]interface{}, 0, len(hitsArray))
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		results = append(results, source)
	}

	return results, nil
}
