package builder

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Build runs the full accumulate-then-finalize pipeline over a corpus.
// Tokenization has no cross-document dependency, so documents are sharded
// across workers, each producing a partial accumulation; a single-threaded
// merge combines the partials before finalization (df and idf need the whole
// corpus, so finalization runs only after the merge completes).
func Build(ctx context.Context, docs []model.Document, a analyzer.Analyzer, w Weights, workers int) (*index.Index, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || len(docs) < 2*workers {
		b := New(a)
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			b.AddDocument(doc)
		}
		return b.Finalize(len(docs), w), nil
	}

	partials := make([]*Builder, workers)
	chunk := (len(docs) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		start := i * chunk
		end := start + chunk
		if start >= len(docs) {
			partials[i] = New(a)
			continue
		}
		if end > len(docs) {
			end = len(docs)
		}
		part := New(a)
		partials[i] = part
		batch := docs[start:end]
		g.Go(func() error {
			for _, doc := range batch {
				if err := gctx.Err(); err != nil {
					return err
				}
				part.AddDocument(doc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := New(a)
	for _, part := range partials {
		merged.Merge(part)
	}
	return merged.Finalize(len(docs), w), nil
}

// BuildQuery indexes a query string through the same pipeline as documents,
// as a single synthetic content-only document, so the scoring math can treat
// query and document vectors symmetrically. No title/tag weighting applies.
// The analyzed token sequence is returned alongside the index because phrase
// scoring needs the query's term order, which the index does not preserve.
func BuildQuery(a analyzer.Analyzer, query string) (*index.Index, []string) {
	tokens := a.Analyze(query, analyzer.FieldContent)

	b := New(a)
	b.AddDocument(model.Document{ID: queryDocID, Content: query})
	return b.Finalize(1, Weights{}), tokens
}

// queryDocID is the synthetic document id queries are indexed under.
const queryDocID = "0"
