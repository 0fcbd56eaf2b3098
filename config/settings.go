// Package config provides configuration for the retrieval engine: field
// boosts, scoring weight caps, champions-list size, cache and worker
// settings, loadable from a YAML file.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
)

// Settings contains all engine configuration options.
type Settings struct {
	// TitleTokenWeight multiplies a term's TF once when the term occurs in
	// the document title. 0 means "no boost" (1.0).
	TitleTokenWeight float64 `json:"title_token_weight" yaml:"title_token_weight"`

	// TagTokenWeight multiplies a term's TF once when the term occurs in any
	// document tag. 0 means "no boost" (1.0).
	TagTokenWeight float64 `json:"tag_token_weight" yaml:"tag_token_weight"`

	// ChampionsListR bounds each term's candidate set to its top-R documents
	// by weighted TF. This trades recall for speed; 0 or absent disables the
	// fast path and keeps recall exhaustive.
	ChampionsListR int `json:"champions_list_r" yaml:"champions_list_r"`

	// PhraseQueryWeight (pqw) caps the phrase-proximity bonus above its 1.0
	// baseline.
	PhraseQueryWeight float64 `json:"phrase_query_weight" yaml:"phrase_query_weight"`

	// DateScoreWeight (dsw) caps the recency bonus.
	DateScoreWeight float64 `json:"date_score_weight" yaml:"date_score_weight"`

	// Cache enables reading and writing the index cache sidecar next to the
	// corpus file.
	Cache bool `json:"cache" yaml:"cache"`

	// Workers is the number of parallel index-build workers. 0 means
	// runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers"`

	// TopK is the default number of hits returned per search.
	TopK int `json:"top_k" yaml:"top_k"`
}

// DefaultSettings returns the engine defaults: title terms boosted 2x, tag
// terms 1.5x, phrase bonus capped at 2, recency bonus capped at 0.4,
// champions lists disabled, cache enabled.
func DefaultSettings() Settings {
	s := Settings{
		TitleTokenWeight:  2.0,
		TagTokenWeight:    1.5,
		PhraseQueryWeight: 2.0,
		DateScoreWeight:   0.4,
		Cache:             true,
	}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills in zero values that have non-zero defaults.
func (s *Settings) ApplyDefaults() {
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.TopK == 0 {
		s.TopK = 10
	}
}

// Validate reports configuration errors.
func (s *Settings) Validate() error {
	if s.TitleTokenWeight < 0 {
		return internalErrors.NewValidationError("title_token_weight", fmt.Sprintf("cannot be negative, got %v", s.TitleTokenWeight))
	}
	if s.TagTokenWeight < 0 {
		return internalErrors.NewValidationError("tag_token_weight", fmt.Sprintf("cannot be negative, got %v", s.TagTokenWeight))
	}
	if s.ChampionsListR < 0 {
		return internalErrors.NewValidationError("champions_list_r", fmt.Sprintf("cannot be negative, got %d", s.ChampionsListR))
	}
	if s.PhraseQueryWeight < 0 {
		return internalErrors.NewValidationError("phrase_query_weight", fmt.Sprintf("cannot be negative, got %v", s.PhraseQueryWeight))
	}
	if s.DateScoreWeight < 0 {
		return internalErrors.NewValidationError("date_score_weight", fmt.Sprintf("cannot be negative, got %v", s.DateScoreWeight))
	}
	if s.Workers < 0 {
		return internalErrors.NewValidationError("workers", fmt.Sprintf("cannot be negative, got %d", s.Workers))
	}
	return nil
}

// Load reads settings from a YAML file, starting from the defaults so absent
// keys keep their default values.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path) // #nosec G304 -- path is controlled by application, not user input
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
