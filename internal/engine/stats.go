package engine

import (
	"sort"

	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/services"
)

// TermStats returns the document frequency of a single term. Unknown terms
// report a frequency of 0, not an error.
func (e *Engine) TermStats(term string) services.TermStats {
	e.mu.RLock()
	idx := e.idx
	e.mu.RUnlock()

	analyzed := e.analyzer.Analyze(term, analyzer.FieldContent)
	if len(analyzed) == 1 {
		// Look the term up the same way queries would see it.
		term = analyzed[0]
	}
	return services.TermStats{
		Term:              term,
		DocumentFrequency: idx.DocumentFrequency(term),
	}
}

// TopTermsByDF returns the n most widespread vocabulary terms, by document
// frequency descending (ties by ascending term).
func (e *Engine) TopTermsByDF(n int) []services.TermStats {
	e.mu.RLock()
	idx := e.idx
	e.mu.RUnlock()

	stats := make([]services.TermStats, 0, len(idx.Terms))
	for term, entry := range idx.Terms {
		stats = append(stats, services.TermStats{Term: term, DocumentFrequency: entry.DF})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].DocumentFrequency != stats[j].DocumentFrequency {
			return stats[i].DocumentFrequency > stats[j].DocumentFrequency
		}
		return stats[i].Term < stats[j].Term
	})
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// Stats summarizes the loaded corpus and index.
func (e *Engine) Stats() services.IndexStats {
	e.mu.RLock()
	docStore := e.docStore
	idx := e.idx
	loadedFrom := e.loadedFrom
	e.mu.RUnlock()

	return services.IndexStats{
		Documents:   docStore.Len(),
		Terms:       len(idx.Terms),
		Fingerprint: docStore.Fingerprint(),
		TopTerms:    e.TopTermsByDF(10),
		LoadedFrom:  loadedFrom,
	}
}
