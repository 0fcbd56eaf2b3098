// Package builder accumulates tokenized documents into a raw positional
// structure and finalizes it into an immutable, TF-IDF-weighted index.
package builder

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Weights are the field boosts applied once per (term, document) during
// finalization. A zero value means "no boost" (multiplier 1.0).
type Weights struct {
	Title float64
	Tag   float64
}

func (w Weights) normalized() Weights {
	if w.Title == 0 {
		w.Title = 1.0
	}
	if w.Tag == 0 {
		w.Tag = 1.0
	}
	return w
}

// postingAcc is the raw per-(term, document) accumulator: the growing
// position list plus the title/tag occurrence flags. The flags are booleans,
// not counts: each boost applies at most once per document.
type postingAcc struct {
	positions []int
	inTitle   bool
	inTag     bool
}

// Builder accumulates raw term occurrences. It is pure accumulation: no
// scores are computed until Finalize, and entries are never removed.
// A Builder is not safe for concurrent use; parallel builds create one
// Builder per worker and merge them (see Build).
type Builder struct {
	analyzer analyzer.Analyzer
	terms    map[string]map[string]*postingAcc
	docCount int
}

// New creates an empty Builder using the given analyzer.
func New(a analyzer.Analyzer) *Builder {
	return &Builder{
		analyzer: a,
		terms:    make(map[string]map[string]*postingAcc),
	}
}

// AddDocument tokenizes and accumulates one document. Positions are assigned
// from a single per-document counter spanning title, then content, then each
// tag in order, with no gaps, so phrase matches may cross field boundaries.
func (b *Builder) AddDocument(doc model.Document) {
	pos := 0
	pos = b.addField(doc.ID, doc.Title, analyzer.FieldTitle, pos)
	pos = b.addField(doc.ID, doc.Content, analyzer.FieldContent, pos)
	for _, tag := range doc.Tags {
		pos = b.addField(doc.ID, tag, analyzer.FieldTags, pos)
	}
	b.docCount++
}

func (b *Builder) addField(docID, text string, field analyzer.Field, pos int) int {
	for _, term := range b.analyzer.Analyze(text, field) {
		docs, ok := b.terms[term]
		if !ok {
			docs = make(map[string]*postingAcc)
			b.terms[term] = docs
		}
		acc, ok := docs[docID]
		if !ok {
			acc = &postingAcc{}
			docs[docID] = acc
		}
		acc.positions = append(acc.positions, pos)
		switch field {
		case analyzer.FieldTitle:
			acc.inTitle = true
		case analyzer.FieldTags:
			acc.inTag = true
		}
		pos++
	}
	return pos
}

// Merge folds another Builder's accumulation into this one. Partial builders
// index disjoint document sets, so per-document accumulators never collide;
// if they do (same document fed to two builders), the later positions win.
func (b *Builder) Merge(other *Builder) {
	for term, docs := range other.terms {
		dst, ok := b.terms[term]
		if !ok {
			b.terms[term] = docs
			continue
		}
		for docID, acc := range docs {
			dst[docID] = acc
		}
	}
	b.docCount += other.docCount
}

// Finalize converts the accumulated raw structure into an immutable index
// over a corpus of n documents:
//
//	lf  = raw occurrence count
//	tf  = (1 + log10(lf)) * titleBoost? * tagBoost?
//	df  = number of documents containing the term
//	idf = log10(n / df)
//
// Finalize is idempotent: re-running it on the same accumulation yields
// bit-identical output, which the cache round-trip depends on. n = 0 yields
// an empty index without touching log10.
func (b *Builder) Finalize(n int, w Weights) *index.Index {
	idx := index.New(n)
	if n == 0 {
		return idx
	}
	w = w.normalized()

	for term, docs := range b.terms {
		entry := &index.TermEntry{
			DF:       len(docs),
			Postings: make(index.PostingList, 0, len(docs)),
		}
		entry.IDF = math.Log10(float64(n) / float64(entry.DF))

		for docID, acc := range docs {
			weight := 1.0
			if acc.inTitle {
				weight *= w.Title
			}
			if acc.inTag {
				weight *= w.Tag
			}
			lf := len(acc.positions)
			entry.Postings = append(entry.Postings, index.Posting{
				DocID:     docID,
				LF:        lf,
				TF:        (1 + math.Log10(float64(lf))) * weight,
				Positions: acc.positions,
			})
		}

		sort.Slice(entry.Postings, func(i, j int) bool {
			return entry.Postings[i].DocID < entry.Postings[j].DocID
		})
		idx.Terms[term] = entry
	}
	return idx
}
