package services

import (
	"context"
	"time"

	"github.com/gcbaptista/go-ir-engine/model"
)

// Hit is a single ranked search result.
type Hit struct {
	DocID string    `json:"doc_id"`
	Title string    `json:"title"`
	URL   string    `json:"url,omitempty"`
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// SearchResult is the response envelope for a search request.
type SearchResult struct {
	Hits    []Hit  `json:"hits"`
	Total   int    `json:"total"`
	Took    int64  `json:"took"`     // milliseconds
	QueryID string `json:"query_id"` // unique UUID for this search query
}

// TermStats reports corpus-wide statistics for a single term.
type TermStats struct {
	Term              string `json:"term"`
	DocumentFrequency int    `json:"document_frequency"`
}

// IndexStats summarizes the engine's loaded corpus and vocabulary.
type IndexStats struct {
	Documents   int         `json:"documents"`
	Terms       int         `json:"terms"`
	Fingerprint string      `json:"fingerprint"`
	TopTerms    []TermStats `json:"top_terms,omitempty"`
	LoadedFrom  string      `json:"loaded_from"` // "cache" or "build"
}

// Searcher defines the query surface: free-text query in, ranked hits out.
// Implementations must return an empty slice, not an error, when no document
// matches any query term. The context deadline bounds candidate scoring.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Hit, error)
}

// TermReader exposes read-only vocabulary statistics.
type TermReader interface {
	TermStats(term string) TermStats
	TopTermsByDF(n int) []TermStats
}

// JobManager defines operations for tracking background jobs.
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs() []*model.Job
}
