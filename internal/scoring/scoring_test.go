package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/analyzer"
	"github.com/gcbaptista/go-ir-engine/internal/builder"
	"github.com/gcbaptista/go-ir-engine/model"
)

const (
	testPQW = 2.0
	testDSW = 0.4
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func buildIndex(t *testing.T, docs []model.Document) *index.Index {
	t.Helper()
	idx, err := builder.Build(context.Background(), docs, analyzer.NewEnglish(),
		builder.Weights{Title: 2.0, Tag: 1.5}, 1)
	require.NoError(t, err)
	return idx
}

func queryFor(q string) (*index.Index, []string) {
	return builder.BuildQuery(analyzer.NewEnglish(), q)
}

func TestCosineScores(t *testing.T) {
	docs := []model.Document{
		{ID: "A", Title: "Cat Dog", Content: "cat dog bird", Date: date("2024-01-01")},
		{ID: "B", Content: "dog bird", Date: date("2024-02-01")},
		{ID: "C", Content: "fish", Date: date("2024-03-01")},
	}
	idx := buildIndex(t, docs)
	minDate, maxDate := date("2024-01-01"), date("2024-03-01")
	scorer := NewScorer(idx, minDate, maxDate, testPQW, testDSW)

	t.Run("scores lie in [0, 1]", func(t *testing.T) {
		queryIdx, _ := queryFor("cat dog bird fish")
		scores := scorer.CosineScores(queryIdx)
		require.NotEmpty(t, scores)
		for docID, score := range scores {
			assert.GreaterOrEqual(t, score, 0.0, "doc %s", docID)
			assert.LessOrEqual(t, score, 1.0, "doc %s", docID)
		}
	})

	t.Run("documents sharing no query term are absent", func(t *testing.T) {
		queryIdx, _ := queryFor("cat")
		scores := scorer.CosineScores(queryIdx)
		_, ok := scores["C"]
		assert.False(t, ok)
		_, ok = scores["B"]
		assert.False(t, ok)
	})

	t.Run("unknown vocabulary yields no candidates", func(t *testing.T) {
		queryIdx, _ := queryFor("zebra")
		assert.Empty(t, scorer.CosineScores(queryIdx))
	})

	t.Run("empty query yields no candidates", func(t *testing.T) {
		queryIdx, _ := queryFor("")
		assert.Empty(t, scorer.CosineScores(queryIdx))
	})
}

func TestPhraseScores(t *testing.T) {
	docs := []model.Document{
		// "cat dog" occurs as a contiguous phrase.
		{ID: "A", Content: "big cat dog runs", Date: date("2024-01-01")},
		// Both terms occur but never adjacent.
		{ID: "B", Content: "cat bird bird dog", Date: date("2024-01-02")},
		// Only the second term occurs.
		{ID: "C", Content: "dog", Date: date("2024-01-03")},
	}
	idx := buildIndex(t, docs)
	scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-03"), testPQW, testDSW)

	_, terms := queryFor("cat dog")
	scores := scorer.PhraseScores(terms, []string{"A", "B", "C"})

	t.Run("contiguous match scores within (1, 1+pqw]", func(t *testing.T) {
		score, ok := scores["A"]
		require.True(t, ok)
		assert.Greater(t, score, 1.0)
		assert.LessOrEqual(t, score, 1.0+testPQW)
		// Full phrase matched: maxRun == len(terms).
		assert.InDelta(t, 1.0+testPQW, score, 1e-12)
	})

	t.Run("non-adjacent occurrences contribute nothing", func(t *testing.T) {
		_, ok := scores["B"]
		assert.False(t, ok, "no run of length >= 2, so B takes the neutral multiplier")
	})

	t.Run("doc without the leading term is excluded, not given the baseline", func(t *testing.T) {
		_, ok := scores["C"]
		assert.False(t, ok)
	})

	t.Run("single-term queries never phrase-score", func(t *testing.T) {
		_, single := queryFor("cat")
		assert.Empty(t, scorer.PhraseScores(single, []string{"A", "B", "C"}))
	})
}

func TestPhraseAcrossFieldBoundary(t *testing.T) {
	// Title ends with "cat", content starts with "dog": the per-document
	// global position space makes them adjacent.
	docs := []model.Document{
		{ID: "A", Title: "big cat", Content: "dog runs", Date: date("2024-01-01")},
	}
	idx := buildIndex(t, docs)
	scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-01"), testPQW, testDSW)

	_, terms := queryFor("cat dog")
	scores := scorer.PhraseScores(terms, []string{"A"})
	score, ok := scores["A"]
	require.True(t, ok, "phrase match must span the title/content boundary")
	assert.InDelta(t, 1.0+testPQW, score, 1e-12)
}

func TestDateScore(t *testing.T) {
	idx := index.New(0)

	t.Run("linear between corpus bounds", func(t *testing.T) {
		scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-03"), testPQW, testDSW)
		assert.InDelta(t, 0.0, scorer.DateScore(date("2024-01-01")), 1e-12)
		assert.InDelta(t, testDSW/2, scorer.DateScore(date("2024-01-02")), 1e-12)
		assert.InDelta(t, testDSW, scorer.DateScore(date("2024-01-03")), 1e-12)
	})

	t.Run("degenerate single-date corpus scores dsw for everyone", func(t *testing.T) {
		scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-01"), testPQW, testDSW)
		assert.InDelta(t, testDSW, scorer.DateScore(date("2024-01-01")), 1e-12)
		assert.InDelta(t, testDSW, scorer.DateScore(date("1999-06-15")), 1e-12)
	})

	t.Run("out-of-range dates clamp to the bounds", func(t *testing.T) {
		scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-03"), testPQW, testDSW)
		assert.InDelta(t, 0.0, scorer.DateScore(date("2020-01-01")), 1e-12)
		assert.InDelta(t, testDSW, scorer.DateScore(date("2030-01-01")), 1e-12)
	})
}

func TestCosineRespectsChampions(t *testing.T) {
	docs := []model.Document{
		{ID: "A", Content: "cat cat cat", Date: date("2024-01-01")},
		{ID: "B", Content: "cat cat", Date: date("2024-01-02")},
		{ID: "C", Content: "cat", Date: date("2024-01-03")},
	}
	idx := buildIndex(t, docs)
	idx.BuildChampions(2)
	scorer := NewScorer(idx, date("2024-01-01"), date("2024-01-03"), testPQW, testDSW)

	queryIdx, _ := queryFor("cat")
	scores := scorer.CosineScores(queryIdx)

	assert.Len(t, scores, 2)
	assert.Contains(t, scores, "A")
	assert.Contains(t, scores, "B")
	assert.NotContains(t, scores, "C", "champions prune the weakest posting")
}
