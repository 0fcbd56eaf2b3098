// Package analyzer provides the text-preprocessing boundary of the engine.
// The index builder never assumes a specific normalization algorithm, only
// the token-sequence contract: given raw field text, an Analyzer produces an
// ordered sequence of normalized root-form tokens with no positional gaps.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Field identifies which document field a piece of text came from. Analyzers
// may use it to vary normalization per field (the bundled English analyzer
// treats all fields the same).
type Field string

const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
	FieldTags    Field = "tags"
)

// Analyzer turns raw field text into index terms.
type Analyzer interface {
	Analyze(text string, field Field) []string
}

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// English is the default analyzer: lowercase, split on non-alphanumeric
// runs, drop stopwords, snowball-stem the rest.
type English struct {
	stopwords map[string]struct{}
}

// NewEnglish creates an English analyzer with the default stopword set.
func NewEnglish() *English {
	return &English{stopwords: DefaultStopwords()}
}

// NewEnglishWithStopwords creates an English analyzer with a caller-supplied
// stopword set. A nil set disables stopword filtering.
func NewEnglishWithStopwords(stopwords map[string]struct{}) *English {
	return &English{stopwords: stopwords}
}

// Analyze implements Analyzer. Empty input yields an empty, non-nil slice.
func (a *English) Analyze(text string, _ Field) []string {
	lower := strings.ToLower(text)
	split := nonAlphanumericRegex.Split(lower, -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s == "" {
			continue
		}
		if a.stopwords != nil {
			if _, stop := a.stopwords[s]; stop {
				continue
			}
		}
		stemmed := english.Stem(s, false)
		if stemmed == "" {
			// Keep the surface form rather than dropping the token, so
			// positions stay gap-free.
			stemmed = s
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}
