// Package engine wires the retrieval pipeline together: corpus loading,
// index build (or cache load), champions lists, scoring and ranking, plus
// background rebuild jobs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-ir-engine/config"
	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/internal/builder"
	"github.com/gcbaptista/go-ir-engine/internal/cache"
	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/internal/jobs"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
	"github.com/gcbaptista/go-ir-engine/store"
)

// Engine owns the full search session: the document store, the finalized
// index, and the searcher built over them. The index and searcher are
// replaced atomically on rebuild; reads take the current pair under a
// read lock and then run lock-free against immutable data.
type Engine struct {
	mu         sync.RWMutex
	docStore   *store.DocumentStore
	idx        *index.Index
	searcher   *search.Service
	loadedFrom string // "cache" or "build"

	settings   config.Settings
	analyzer   analyzer.Analyzer
	corpusPath string
	cacheMgr   *cache.Manager
	// Rebuilds run on a single worker: the cache location has a
	// single-writer discipline.
	jobs    *jobs.Manager
	metrics *metrics.Metrics
}

// NewEngine loads the corpus at corpusPath and prepares the engine for
// queries, reading the index cache when enabled and fresh, rebuilding
// otherwise.
func NewEngine(settings config.Settings, corpusPath string, a analyzer.Analyzer) (*Engine, error) {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if a == nil {
		a = analyzer.NewEnglish()
	}

	eng := &Engine{
		settings:   settings,
		analyzer:   a,
		corpusPath: corpusPath,
		cacheMgr:   cache.NewManager(corpusPath),
		jobs:       jobs.NewManager(1),
		metrics:    metrics.New(),
	}
	if err := eng.reload(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

// Stop waits for in-flight background jobs.
func (e *Engine) Stop() {
	e.jobs.Stop()
}

// Metrics returns the engine's Prometheus collectors.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// reload reads the corpus file and installs a fresh index and searcher.
func (e *Engine) reload(ctx context.Context) error {
	docs, docErrs, err := store.LoadFile(e.corpusPath)
	if err != nil {
		return err
	}
	// Per-document failures are not fatal to the load: skip the offending
	// documents and keep the rest.
	for _, docErr := range docErrs {
		log.Printf("Warning: skipping document: %v", docErr)
	}

	docStore := store.NewDocumentStore(docs)
	idx, loadedFrom, err := e.loadOrBuild(ctx, docStore)
	if err != nil {
		return err
	}

	idx.BuildChampions(e.settings.ChampionsListR)

	searcher, err := search.NewService(idx, docStore, e.analyzer,
		e.settings.PhraseQueryWeight, e.settings.DateScoreWeight)
	if err != nil {
		return err
	}

	e.metrics.DocumentsIndexed.Set(float64(docStore.Len()))
	e.metrics.TermsIndexed.Set(float64(len(idx.Terms)))

	e.mu.Lock()
	e.docStore = docStore
	e.idx = idx
	e.searcher = searcher
	e.loadedFrom = loadedFrom
	e.mu.Unlock()

	log.Printf("Loaded %d documents, %d terms (%s)", docStore.Len(), len(idx.Terms), loadedFrom)
	return nil
}

// loadOrBuild returns a finalized index for the store's corpus, preferring
// the cache when enabled and fresh. Cache failures of any kind are
// recoverable and fall through to a full rebuild.
func (e *Engine) loadOrBuild(ctx context.Context, docStore *store.DocumentStore) (*index.Index, string, error) {
	if e.settings.Cache {
		idx, err := e.cacheMgr.Load(docStore.Fingerprint())
		switch {
		case err == nil:
			e.metrics.CacheLoadsTotal.WithLabelValues("hit").Inc()
			return idx, "cache", nil
		case errors.Is(err, os.ErrNotExist):
			e.metrics.CacheLoadsTotal.WithLabelValues("miss").Inc()
		case errors.Is(err, internalErrors.ErrCacheStale):
			e.metrics.CacheLoadsTotal.WithLabelValues("stale").Inc()
			log.Printf("Info: %v; rebuilding index", err)
		case errors.Is(err, internalErrors.ErrCacheCorrupt):
			e.metrics.CacheLoadsTotal.WithLabelValues("corrupt").Inc()
			log.Printf("Warning: %v; rebuilding index", err)
		default:
			e.metrics.CacheLoadsTotal.WithLabelValues("corrupt").Inc()
			log.Printf("Warning: failed to load index cache: %v; rebuilding index", err)
		}
	}

	start := time.Now()
	idx, err := builder.Build(ctx, docStore.Documents(), e.analyzer, builder.Weights{
		Title: e.settings.TitleTokenWeight,
		Tag:   e.settings.TagTokenWeight,
	}, e.settings.Workers)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build index: %w", err)
	}
	e.metrics.BuildDuration.Observe(time.Since(start).Seconds())

	if e.settings.Cache {
		if err := e.cacheMgr.Save(idx, docStore.Fingerprint()); err != nil {
			// A failed cache write costs the next startup a rebuild, nothing
			// more.
			log.Printf("Warning: failed to write index cache: %v", err)
		}
	}
	return idx, "build", nil
}

// Search runs a ranked query and wraps the hits in a result envelope.
func (e *Engine) Search(ctx context.Context, query string, k int) (services.SearchResult, error) {
	startTime := time.Now()
	if k <= 0 {
		k = e.settings.TopK
	}

	e.mu.RLock()
	searcher := e.searcher
	e.mu.RUnlock()

	hits, err := searcher.Search(ctx, query, k)
	e.metrics.SearchLatency.Observe(time.Since(startTime).Seconds())
	if err != nil {
		e.metrics.SearchesTotal.WithLabelValues("error").Inc()
		return services.SearchResult{}, err
	}
	if len(hits) == 0 {
		e.metrics.SearchesTotal.WithLabelValues("zero_result").Inc()
	} else {
		e.metrics.SearchesTotal.WithLabelValues("hit").Inc()
	}

	return services.SearchResult{
		Hits:    hits,
		Total:   len(hits),
		Took:    time.Since(startTime).Milliseconds(),
		QueryID: uuid.New().String(),
	}, nil
}

// Rebuild re-reads the corpus file and installs a fresh index synchronously.
// An unchanged corpus may still be served from the cache, which round-trips
// the index exactly; a changed corpus fails the fingerprint check and is
// rebuilt from documents.
func (e *Engine) Rebuild(ctx context.Context) error {
	return e.reload(ctx)
}

// RebuildAsync schedules a background rebuild and returns its job id.
func (e *Engine) RebuildAsync() string {
	jobID := e.jobs.CreateJob(model.JobTypeRebuildIndex, map[string]string{
		"corpus": e.corpusPath,
	})
	e.jobs.Run(jobID, func() error {
		return e.Rebuild(context.Background())
	})
	return jobID
}

// GetJob retrieves a background job by id.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobs.GetJob(jobID)
}

// ListJobs lists all background jobs, newest first.
func (e *Engine) ListJobs() []*model.Job {
	return e.jobs.ListJobs()
}
