// Package scoring computes the per-document relevance signals: cosine
// similarity over TF-IDF vectors, phrase proximity, and recency. Field
// weighting is not a runtime signal here; it is already baked into each
// posting's TF during finalization.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/gcbaptista/go-ir-engine/index"
)

// Scorer evaluates signals against one finalized index. It is stateless
// beyond precomputed document vector lengths, so a single Scorer serves
// unlimited concurrent queries.
type Scorer struct {
	idx        *index.Index
	docLengths map[string]float64

	phraseWeight float64 // pqw: phrase-score cap above the 1.0 baseline
	dateWeight   float64 // dsw: recency-score cap
	minDate      time.Time
	maxDate      time.Time
}

// NewScorer creates a Scorer for a finalized index. minDate/maxDate are the
// corpus publication-date bounds used by DateScore.
func NewScorer(idx *index.Index, minDate, maxDate time.Time, phraseWeight, dateWeight float64) *Scorer {
	return &Scorer{
		idx:          idx,
		docLengths:   computeDocLengths(idx),
		phraseWeight: phraseWeight,
		dateWeight:   dateWeight,
		minDate:      minDate,
		maxDate:      maxDate,
	}
}

// computeDocLengths precomputes each document's TF-IDF vector length over the
// full postings (champions lists never affect norms), with a floor of 1.0 so
// very short documents do not blow up normalized scores.
func computeDocLengths(idx *index.Index) map[string]float64 {
	squared := make(map[string]float64)
	for _, entry := range idx.Terms {
		for _, p := range entry.Postings {
			w := p.TF * entry.IDF
			squared[p.DocID] += w * w
		}
	}
	lengths := make(map[string]float64, len(squared))
	for docID, sum := range squared {
		lengths[docID] = math.Max(1.0, math.Sqrt(sum))
	}
	return lengths
}

// CosineScores computes normalized cosine similarity between the query vector
// and every document sharing at least one query term. Candidate selection
// iterates each term's search scope, so champions lists (when built) bound
// the result set. Scores are in [0, 1]; documents sharing no query term are
// simply absent from the returned map.
func (s *Scorer) CosineScores(queryIdx *index.Index) map[string]float64 {
	dots := make(map[string]float64)
	queryNormSq := 0.0

	for term, queryEntry := range queryIdx.Terms {
		// The query index holds a single synthetic document, so the term's
		// frequency is its only posting's TF.
		wtq := queryEntry.Postings[0].TF
		queryNormSq += wtq * wtq

		entry := s.idx.Lookup(term)
		if entry == nil {
			continue
		}
		for _, p := range entry.SearchScope() {
			dots[p.DocID] += p.TF * entry.IDF * wtq
		}
	}
	if queryNormSq == 0 {
		return map[string]float64{}
	}

	queryNorm := math.Sqrt(queryNormSq)
	scores := make(map[string]float64, len(dots))
	for docID, dot := range dots {
		scores[docID] = dot / (s.docLengths[docID] * queryNorm)
	}
	return scores
}

// PhraseScores rewards contiguous positional matches of the query terms, in
// order, within each candidate document. For every occurrence position p of
// the first query term present in the document, subsequent terms must occur
// at p+1, p+2, ...; the best run across all starting positions sets the
// score:
//
//	1 + pqw * maxRun/len(queryTerms)
//
// which lies in (1, 1+pqw]. Documents without a run of at least two terms
// are omitted; callers treat absence as the neutral multiplier 1. Documents
// containing none of the query terms are excluded from phrase scoring
// entirely, not given the baseline.
func (s *Scorer) PhraseScores(queryTerms []string, docIDs []string) map[string]float64 {
	scores := make(map[string]float64)
	if len(queryTerms) < 2 {
		return scores
	}

	for _, docID := range docIDs {
		// Find the first query term that occurs in this document; a match
		// run can only start there.
		first := -1
		var startPositions []int
		for i := 0; i+1 < len(queryTerms); i++ {
			if entry := s.idx.Lookup(queryTerms[i]); entry != nil {
				if p := entry.Postings.Find(docID); p != nil {
					first = i
					startPositions = p.Positions
					break
				}
			}
		}
		if first == -1 {
			continue
		}

		maxRun := 0
		for _, start := range startPositions {
			run := 1
			pos := start
			for _, term := range queryTerms[first+1:] {
				entry := s.idx.Lookup(term)
				if entry == nil {
					break
				}
				p := entry.Postings.Find(docID)
				if p == nil {
					break
				}
				pos++
				if !containsPosition(p.Positions, pos) {
					break
				}
				run++
			}
			if run > maxRun {
				maxRun = run
			}
		}

		if maxRun > 1 {
			scores[docID] = 1 + s.phraseWeight*float64(maxRun)/float64(len(queryTerms))
		}
	}
	return scores
}

// DateScore linearly normalizes a publication date between the corpus's date
// bounds, scaled by dsw: the most recent document scores dsw, the oldest 0.
// A degenerate corpus (single date) scores dsw for every document rather
// than dividing by zero.
func (s *Scorer) DateScore(date time.Time) float64 {
	if !s.maxDate.After(s.minDate) {
		return s.dateWeight
	}
	span := s.maxDate.Sub(s.minDate).Seconds()
	delta := date.Sub(s.minDate).Seconds()
	score := delta / span * s.dateWeight
	if score < 0 {
		return 0
	}
	if score > s.dateWeight {
		return s.dateWeight
	}
	return score
}

func containsPosition(positions []int, pos int) bool {
	i := sort.SearchInts(positions, pos)
	return i < len(positions) && positions[i] == pos
}
