package index

// Posting records a term's occurrences within a single document: the raw
// occurrence count (LF), the log-scaled field-weighted term frequency (TF),
// and the ordered list of token positions within the document's global
// position space.
type Posting struct {
	DocID     string  `json:"doc_id"`
	TF        float64 `json:"tf"`
	LF        int     `json:"lf"`
	Positions []int   `json:"list"` // strictly ascending, never empty
}

// PostingList is a slice of Posting, kept sorted by ascending DocID so that
// serialization is stable and per-document lookups can binary search.
type PostingList []Posting

// Find returns the posting for docID, or nil when the document does not
// contain the term. The list must be sorted by ascending DocID.
func (pl PostingList) Find(docID string) *Posting {
	low, high := 0, len(pl)-1
	for low < high {
		mid := (low + high) / 2
		if pl[mid].DocID < docID {
			low = mid + 1
		} else {
			high = mid
		}
	}
	if low >= 0 && low < len(pl) && pl[low].DocID == docID {
		return &pl[low]
	}
	return nil
}
