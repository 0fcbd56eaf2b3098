package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ir-engine/config"
	"github.com/gcbaptista/go-ir-engine/internal/engine"
	"github.com/gcbaptista/go-ir-engine/services"
)

const testCorpus = `{
	"1": {"title": "Cat Dog", "content": "cat dog bird", "url": "http://a", "date": "1/1/2024 9:00:00 AM", "tags": ["pets"]},
	"2": {"title": "Dogs", "content": "dog training dog", "url": "http://b", "date": "2/1/2024 9:00:00 AM"},
	"3": {"title": "Fish", "content": "fish swims in water", "url": "http://c", "date": "3/1/2024 9:00:00 AM"}
}`

func setupTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(testCorpus), 0o644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}

	settings := config.DefaultSettings()
	settings.Workers = 1
	eng, err := engine.NewEngine(settings, path, nil)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	t.Cleanup(eng.Stop)
	return eng
}

func setupTestRouter(eng *engine.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, eng)
	return router
}

func TestSearchHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid search",
			requestBody:    SearchRequest{Query: "cat dog", K: 10},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no matches",
			requestBody:    SearchRequest{Query: "zebra"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing query",
			requestBody:    SearchRequest{K: 10},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest("POST", "/search", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Response: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSearchHandlerResponseShape(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	body, _ := json.Marshal(SearchRequest{Query: "cat dog"})
	req, _ := http.NewRequest("POST", "/search", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d. Response: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var result services.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("Expected 2 hits, got %d", result.Total)
	}
	if len(result.Hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(result.Hits))
	}
	if result.Hits[0].DocID != "1" {
		t.Errorf("Expected top hit '1', got %q", result.Hits[0].DocID)
	}
	if result.QueryID == "" {
		t.Error("Expected a non-empty query id")
	}
}

func TestStatsHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	req, _ := http.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var stats services.IndexStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if stats.Documents != 3 {
		t.Errorf("Expected 3 documents, got %d", stats.Documents)
	}
	if stats.Terms == 0 {
		t.Error("Expected a non-empty vocabulary")
	}
}

func TestTermStatsHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	tests := []struct {
		name       string
		term       string
		expectedDF int
	}{
		{name: "known term", term: "dog", expectedDF: 2},
		{name: "surface form is analyzed", term: "Dogs", expectedDF: 2},
		{name: "unknown term", term: "zebra", expectedDF: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/terms/"+tt.term, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
			}
			var stats services.TermStats
			if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if stats.DocumentFrequency != tt.expectedDF {
				t.Errorf("Expected df=%d, got %d", tt.expectedDF, stats.DocumentFrequency)
			}
		})
	}
}

func TestReindexAndJobHandlers(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	req, _ := http.NewRequest("POST", "/reindex", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status %d, got %d. Response: %s", http.StatusAccepted, w.Code, w.Body.String())
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	jobID := response["job_id"]
	if jobID == "" {
		t.Fatal("Expected a job_id in the response")
	}

	t.Run("get job", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/jobs/"+jobID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("get unknown job", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/jobs/no-such-job", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("list jobs", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/jobs", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte(jobID)) {
			t.Errorf("Expected job %s in list, got: %s", jobID, w.Body.String())
		}
	})
}

func TestMetricsHandler(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("ir_engine_documents_indexed")) {
		t.Error("Expected engine metrics in scrape output")
	}
}

func TestRequestSizeLimit(t *testing.T) {
	eng := setupTestEngine(t)
	router := setupTestRouter(eng)

	// Oversized bodies fail during binding, so the handler rejects them.
	huge := fmt.Sprintf(`{"query": "%s"}`, bytes.Repeat([]byte("a"), maxRequestBodySize+1))
	req, _ := http.NewRequest("POST", "/search", bytes.NewBufferString(huge))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
