package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

var (
	ESClient    *http.Client
	ESBaseURL   string
	ESEnabled   bool
	VideosIndex = "videos"
)

// GetESClient returns the Elasticsearch HTTP client
func GetESClient() *http.Client {
	return ESClient
}

// GetESBaseURL returns the Elasticsearch base URL
func GetESBaseURL() string {
	return ESBaseURL
}

// IsESEnabled returns whether Elasticsearch is enabled
func IsESEnabled() bool {
	return ESEnabled
}

// GetVideosIndex returns the videos index name
func GetVideosIndex() string {
	return VideosIndex
}

// InitElasticsearch initializes the Elasticsearch client
func InitElasticsearch() {
	esHost := os.Getenv("ELASTICSEARCH_HOST")
	esPort := os.Getenv("ELASTICSEARCH_PORT")

	if esHost == "" {
		esHost = "localhost"
	}
	if esPort == "" {
		esPort = "9200"
	}

	ESBaseURL = fmt.Sprintf("http://%s:%s", esHost, esPort)
	ESClient = &http.Client{
		Timeout: 15 * time.Second,
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pingElasticsearch(ctx); err != nil {
		zap.S().Warnf("Elasticsearch connection failed: %v. Search features will be disabled.", err)
		zap.S().Warnf("Make sure Elasticsearch is running at %s", ESBaseURL)
		ESEnabled = false
		return
	}

	ESEnabled = true
	zap.S().Info("Elasticsearch connected!")

	if err := createIndices(); err != nil {
		// Don't disable ES - it's connected, just index creation failed.
		// The index may already exist or can be created manually.
		zap.S().Warnf("Failed to create Elasticsearch indices: %v", err)
	}
}

// pingElasticsearch tests the Elasticsearch connection
func pingElasticsearch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", ESBaseURL, nil)
	if err != nil {
		return err
	}

	resp, err := ESClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("elasticsearch returned status %d", resp.StatusCode)
	}

	return nil
}

// createIndices creates the videos index if it doesn't exist
func createIndices() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	videosMapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"video_id": map[string]interface{}{
					"type": "keyword",
				},
				"owner": map[string]interface{}{
					"type": "keyword",
				},
				"title": map[string]interface{}{
					"type":            "text",
					"analyzer":        "standard",
					"search_analyzer": "standard",
				},
				"description": map[string]interface{}{
					"type":            "text",
					"analyzer":        "standard",
					"search_analyzer": "standard",
				},
			},
		},
	}

	if err := createIndex(ctx, VideosIndex, videosMapping); err != nil {
		return fmt.Errorf("failed to create videos index: %w", err)
	}

	return nil
}

// createIndex creates an Elasticsearch index if it doesn't exist
func createIndex(ctx context.Context, indexName string, mapping map[string]interface{}) error {
	// Check if index exists
	checkURL := fmt.Sprintf("%s/%s", ESBaseURL, indexName)
	req, err := http.NewRequestWithContext(ctx, "HEAD", checkURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HEAD request for index %s: %w", indexName, err)
	}

	resp, err := ESClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to check if index %s exists: %w", indexName, err)
	}
	resp.Body.Close()

	// Index already exists
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	createURL := fmt.Sprintf("%s/%s", ESBaseURL, indexName)
	req, err = http.NewRequestWithContext(ctx, "PUT", createURL, bytes.NewBuffer(mappingJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = ESClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create index %s: status %d, body: %s", indexName, resp.StatusCode, string(body))
	}

	return nil
}
