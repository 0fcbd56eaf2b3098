// Package cache persists a finalized index to disk so later runs can skip
// tokenization and index construction entirely. The on-disk format is a JSON
// array of term entries ordered by ascending term, each posting list ordered
// by ascending doc id:
//
//	[
//	  { "term": "...", "idf": 0.0, "df": 1,
//	    "list": [ { "doc_id": "...", "tf": 1.0, "lf": 1, "list": [0, 5] } ] }
//	]
//
// A sidecar meta file records the corpus document count and fingerprint; a
// mismatch on load rejects the cache so a stale index is never served.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-ir-engine/index"
	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
)

const (
	cacheExt = ".cache"
	metaExt  = ".meta"
)

// termRecord is the serialized form of one vocabulary entry.
type termRecord struct {
	Term string            `json:"term"`
	IDF  float64           `json:"idf"`
	DF   int               `json:"df"`
	List index.PostingList `json:"list"`
}

// meta carries the staleness-detection metadata for a cache file.
type meta struct {
	DocCount    int    `json:"doc_count"`
	Fingerprint string `json:"fingerprint"`
}

// Manager owns a cache location and the file-handle lifetime of reads and
// writes against it. Writes must not be interleaved for the same path;
// readers may load a completed cache concurrently.
type Manager struct {
	path string // base path; <path>.cache and <path>.meta are derived
}

// NewManager creates a cache manager for the given base path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// CachePath returns the index cache file location.
func (m *Manager) CachePath() string { return m.path + cacheExt }

// MetaPath returns the staleness-metadata file location.
func (m *Manager) MetaPath() string { return m.path + metaExt }

// Save serializes a finalized index. Terms are written in ascending order and
// postings are already sorted by doc id, so output is deterministic and
// diffable. The meta file is written last: a crash mid-write leaves a cache
// without valid metadata, which the next Load rejects.
func (m *Manager) Save(idx *index.Index, fingerprint string) error {
	records := make([]termRecord, 0, len(idx.Terms))
	for _, term := range idx.SortedTerms() {
		entry := idx.Terms[term]
		records = append(records, termRecord{
			Term: term,
			IDF:  entry.IDF,
			DF:   entry.DF,
			List: entry.Postings,
		})
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode index cache: %w", err)
	}
	metaBlob, err := json.Marshal(meta{DocCount: idx.N, Fingerprint: fingerprint})
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	dir := filepath.Dir(m.CachePath())
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	if err := writeFile(m.CachePath(), blob); err != nil {
		return err
	}
	return writeFile(m.MetaPath(), metaBlob)
}

// Load reads a persisted index and validates it against the current corpus
// fingerprint. It returns os.ErrNotExist when no cache has been written,
// a CacheStaleError when the corpus changed since the cache was written, and
// a CacheCorruptError when the blob cannot be decoded or fails shape
// validation. All three are recoverable: the caller rebuilds from documents.
func (m *Manager) Load(fingerprint string) (*index.Index, error) {
	metaBlob, err := os.ReadFile(m.MetaPath()) // #nosec G304 -- path is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read cache metadata %s: %w", m.MetaPath(), err)
	}
	var md meta
	if err := json.Unmarshal(metaBlob, &md); err != nil {
		return nil, internalErrors.NewCacheCorruptError(m.MetaPath(), err.Error())
	}
	if md.Fingerprint != fingerprint {
		return nil, internalErrors.NewCacheStaleError(m.CachePath(), fingerprint, md.Fingerprint)
	}

	blob, err := os.ReadFile(m.CachePath()) // #nosec G304 -- path is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read index cache %s: %w", m.CachePath(), err)
	}

	var records []termRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, internalErrors.NewCacheCorruptError(m.CachePath(), err.Error())
	}

	idx := index.New(md.DocCount)
	for _, rec := range records {
		if err := validateRecord(rec); err != nil {
			return nil, internalErrors.NewCacheCorruptError(m.CachePath(), err.Error())
		}
		idx.Terms[rec.Term] = &index.TermEntry{
			IDF:      rec.IDF,
			DF:       rec.DF,
			Postings: rec.List,
		}
	}
	return idx, nil
}

// validateRecord enforces the index invariants on decoded data so a
// wrong-shape blob is never served as a partially-parsed index.
func validateRecord(rec termRecord) error {
	if rec.Term == "" {
		return fmt.Errorf("empty term")
	}
	if rec.DF != len(rec.List) {
		return fmt.Errorf("term %q: df %d does not match %d postings", rec.Term, rec.DF, len(rec.List))
	}
	prevDoc := ""
	for i, p := range rec.List {
		if i > 0 && p.DocID <= prevDoc {
			return fmt.Errorf("term %q: postings not in ascending doc id order", rec.Term)
		}
		prevDoc = p.DocID
		if len(p.Positions) == 0 {
			return fmt.Errorf("term %q, doc %q: empty position list", rec.Term, p.DocID)
		}
		if p.LF != len(p.Positions) {
			return fmt.Errorf("term %q, doc %q: lf %d does not match %d positions", rec.Term, p.DocID, p.LF, len(p.Positions))
		}
		for j := 1; j < len(p.Positions); j++ {
			if p.Positions[j] <= p.Positions[j-1] {
				return fmt.Errorf("term %q, doc %q: positions not strictly ascending", rec.Term, p.DocID)
			}
		}
	}
	return nil
}

func writeFile(path string, blob []byte) error {
	file, err := os.Create(path) // #nosec G304 -- path is controlled by application, not user input
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()
	if _, err := file.Write(blob); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
