package index

import (
	"sort"
)

// TermEntry holds corpus-wide statistics for one term: its document frequency,
// inverse document frequency, full posting list, and the optional champions
// list computed by BuildChampions.
type TermEntry struct {
	IDF       float64     `json:"idf"`
	DF        int         `json:"df"`
	Postings  PostingList `json:"list"`
	Champions PostingList `json:"-"` // nil unless champions lists were built
}

// SearchScope returns the posting list candidate selection should iterate:
// the champions list when one was built, otherwise the full postings.
// Champions trade recall for speed; callers needing exhaustive recall must
// build the index with champions disabled.
func (te *TermEntry) SearchScope() PostingList {
	if te.Champions != nil {
		return te.Champions
	}
	return te.Postings
}

// Index is a finalized positional inverted index. It is built once by the
// builder (or decoded from cache) and never mutated afterwards, so it is safe
// for unlimited concurrent readers without locking.
type Index struct {
	Terms map[string]*TermEntry
	N     int // corpus size at finalization time
}

// New returns an empty finalized index over n documents.
func New(n int) *Index {
	return &Index{Terms: make(map[string]*TermEntry), N: n}
}

// Lookup returns the entry for term, or nil when the term is not in the
// vocabulary.
func (idx *Index) Lookup(term string) *TermEntry {
	return idx.Terms[term]
}

// DocumentFrequency returns the number of documents containing term, or 0
// when the term is not in the vocabulary.
func (idx *Index) DocumentFrequency(term string) int {
	entry, ok := idx.Terms[term]
	if !ok {
		return 0
	}
	return entry.DF
}

// TermFrequency returns the raw occurrence count of term in the document, or
// 0 when either the term or the document is unknown.
func (idx *Index) TermFrequency(term, docID string) int {
	entry, ok := idx.Terms[term]
	if !ok {
		return 0
	}
	if p := entry.Postings.Find(docID); p != nil {
		return p.LF
	}
	return 0
}

// SortedTerms returns the vocabulary in ascending order. Used wherever
// deterministic iteration matters (serialization, stats).
func (idx *Index) SortedTerms() []string {
	terms := make([]string, 0, len(idx.Terms))
	for term := range idx.Terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Equal reports whether two finalized indexes are identical: same term set
// and, per term, same idf, df and every posting's doc id, tf, lf and
// positions. Champions lists are excluded since they are derived data.
func (idx *Index) Equal(other *Index) bool {
	if other == nil || idx.N != other.N || len(idx.Terms) != len(other.Terms) {
		return false
	}
	for term, entry := range idx.Terms {
		otherEntry, ok := other.Terms[term]
		if !ok {
			return false
		}
		if entry.IDF != otherEntry.IDF || entry.DF != otherEntry.DF {
			return false
		}
		if len(entry.Postings) != len(otherEntry.Postings) {
			return false
		}
		for i, p := range entry.Postings {
			op := otherEntry.Postings[i]
			if p.DocID != op.DocID || p.TF != op.TF || p.LF != op.LF {
				return false
			}
			if len(p.Positions) != len(op.Positions) {
				return false
			}
			for j, pos := range p.Positions {
				if pos != op.Positions[j] {
					return false
				}
			}
		}
	}
	return true
}
