// Package search ranks documents against free-text queries: it drives the
// query indexer, selects candidates, combines the scoring signals, and
// produces ordered results.
package search

import (
	"container/heap"
	"context"
	"fmt"
	"sort"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/internal/builder"
	"github.com/gcbaptista/go-ir-engine/internal/scoring"
	"github.com/gcbaptista/go-ir-engine/services"
	"github.com/gcbaptista/go-ir-engine/store"
)

// DefaultTopK is the number of hits returned when the caller does not ask
// for a specific k.
const DefaultTopK = 10

// Service implements services.Searcher over one finalized index. The index
// is never mutated after construction, so Search is safe for unlimited
// concurrent callers without locking.
type Service struct {
	idx      *index.Index
	docStore *store.DocumentStore
	analyzer analyzer.Analyzer
	scorer   *scoring.Scorer
}

// NewService creates a search Service.
func NewService(idx *index.Index, docStore *store.DocumentStore, a analyzer.Analyzer, phraseWeight, dateWeight float64) (*Service, error) {
	if idx == nil {
		return nil, fmt.Errorf("index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if a == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	minDate, maxDate := docStore.DateRange()
	return &Service{
		idx:      idx,
		docStore: docStore,
		analyzer: a,
		scorer:   scoring.NewScorer(idx, minDate, maxDate, phraseWeight, dateWeight),
	}, nil
}

// Search indexes the query through the same pipeline as documents, scores
// every candidate sharing at least one query term, and returns the k best
// hits ordered by score descending (ties by ascending doc id, for
// determinism). A query matching nothing yields an empty slice, not an
// error. The context deadline is checked between scoring iterations; there
// is no preemption inside a single document's scoring.
func (s *Service) Search(ctx context.Context, query string, k int) ([]services.Hit, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	queryIdx, queryTerms := builder.BuildQuery(s.analyzer, query)
	if len(queryTerms) == 0 {
		return []services.Hit{}, nil
	}

	cosine := s.scorer.CosineScores(queryIdx)
	if len(cosine) == 0 {
		return []services.Hit{}, nil
	}

	// Candidates in ascending doc id order so scoring and tie-breaking are
	// deterministic run to run.
	docIDs := make([]string, 0, len(cosine))
	for docID := range cosine {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	phrase := s.scorer.PhraseScores(queryTerms, docIDs)

	hits := make([]services.Hit, 0, len(docIDs))
	for _, docID := range docIDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search cancelled: %w", err)
		}
		doc, ok := s.docStore.Get(docID)
		if !ok {
			// Index and store disagree; skip rather than fabricate a hit.
			continue
		}

		score := cosine[docID]
		if mult, ok := phrase[docID]; ok {
			score *= mult
		}
		score += s.scorer.DateScore(doc.Date)

		hits = append(hits, services.Hit{
			DocID: docID,
			Title: doc.Title,
			URL:   doc.URL,
			Date:  doc.Date,
			Score: score,
		})
	}

	return topK(hits, k), nil
}

// hitHeap is a min-heap over hits: the root is the worst hit currently
// retained (lowest score, ties resolved so the higher doc id is worse).
type hitHeap []services.Hit

func (h hitHeap) Len() int { return len(h) }
func (h hitHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].DocID > h[j].DocID
}
func (h hitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x interface{}) { *h = append(*h, x.(services.Hit)) }
func (h *hitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	hit := old[n-1]
	*h = old[:n-1]
	return hit
}

// topK selects the k best hits without sorting the full candidate set: a
// bounded min-heap keeps the current best k, then draining it yields them in
// final order (score descending, ties by ascending doc id).
func topK(hits []services.Hit, k int) []services.Hit {
	if k > len(hits) {
		k = len(hits)
	}

	h := make(hitHeap, 0, k+1)
	heap.Init(&h)
	for _, hit := range hits {
		heap.Push(&h, hit)
		if h.Len() > k {
			heap.Pop(&h)
		}
	}

	ranked := make([]services.Hit, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		ranked[i] = heap.Pop(&h).(services.Hit)
	}
	return ranked
}
