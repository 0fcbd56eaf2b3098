package index

import (
	"sort"
)

// BuildChampions precomputes, for every term, the top-r postings by weighted
// term frequency (ties broken by ascending doc id). The retained postings are
// re-sorted by doc id so the champions list supports the same binary-search
// lookups as the full list.
//
// Champions lists bound the candidate set at query time at the cost of
// recall. r <= 0 disables them and clears any previously built lists.
func (idx *Index) BuildChampions(r int) {
	for _, entry := range idx.Terms {
		if r <= 0 || len(entry.Postings) <= r {
			if r <= 0 {
				entry.Champions = nil
				continue
			}
			// Fewer postings than r: the champions list is the full list.
			entry.Champions = entry.Postings
			continue
		}

		ranked := make(PostingList, len(entry.Postings))
		copy(ranked, entry.Postings)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].TF != ranked[j].TF {
				return ranked[i].TF > ranked[j].TF
			}
			return ranked[i].DocID < ranked[j].DocID
		})

		champions := ranked[:r]
		sort.Slice(champions, func(i, j int) bool {
			return champions[i].DocID < champions[j].DocID
		})
		entry.Champions = champions
	}
}
