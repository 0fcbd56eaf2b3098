// Package store owns the corpus documents: typed at the ingestion boundary,
// loaded once at startup, and read-only thereafter.
package store

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/gcbaptista/go-ir-engine/model"
)

// DocumentStore holds the loaded corpus plus the metadata scoring needs: the
// publication-date range and a content fingerprint used for cache-staleness
// checks. It is immutable after construction and safe for concurrent readers.
type DocumentStore struct {
	docs        map[string]model.Document
	ids         []string // ascending
	minDate     time.Time
	maxDate     time.Time
	fingerprint string
}

// NewDocumentStore builds a store from validated documents. A document with
// an id already present replaces the earlier one.
func NewDocumentStore(docs []model.Document) *DocumentStore {
	ds := &DocumentStore{docs: make(map[string]model.Document, len(docs))}
	for _, doc := range docs {
		if _, seen := ds.docs[doc.ID]; !seen {
			ds.ids = append(ds.ids, doc.ID)
		}
		ds.docs[doc.ID] = doc
	}
	sort.Strings(ds.ids)

	first := true
	for _, id := range ds.ids {
		date := ds.docs[id].Date
		if first {
			ds.minDate, ds.maxDate = date, date
			first = false
			continue
		}
		if date.Before(ds.minDate) {
			ds.minDate = date
		}
		if date.After(ds.maxDate) {
			ds.maxDate = date
		}
	}

	ds.fingerprint = computeFingerprint(ds)
	return ds
}

// Get returns the document with the given id.
func (ds *DocumentStore) Get(id string) (model.Document, bool) {
	doc, ok := ds.docs[id]
	return doc, ok
}

// Len returns the corpus size.
func (ds *DocumentStore) Len() int { return len(ds.ids) }

// IDs returns the document ids in ascending order. The caller must not
// mutate the returned slice.
func (ds *DocumentStore) IDs() []string { return ds.ids }

// Documents returns the corpus in ascending id order.
func (ds *DocumentStore) Documents() []model.Document {
	docs := make([]model.Document, 0, len(ds.ids))
	for _, id := range ds.ids {
		docs = append(docs, ds.docs[id])
	}
	return docs
}

// DateRange returns the corpus's minimum and maximum publication dates.
// Both are zero for an empty corpus.
func (ds *DocumentStore) DateRange() (min, max time.Time) {
	return ds.minDate, ds.maxDate
}

// Fingerprint identifies the loaded document set. A persisted index whose
// recorded fingerprint differs was built from a different corpus and must be
// rejected.
func (ds *DocumentStore) Fingerprint() string {
	return ds.fingerprint
}

func computeFingerprint(ds *DocumentStore) string {
	h := fnv.New64a()
	for _, id := range ds.ids {
		doc := ds.docs[id]
		_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00", doc.ID, doc.Title, doc.Content, doc.Date.Unix())
		for _, tag := range doc.Tags {
			_, _ = fmt.Fprintf(h, "%s\x00", tag)
		}
		_, _ = h.Write([]byte{0xff})
	}
	return fmt.Sprintf("%d-%016x", len(ds.ids), h.Sum64())
}
