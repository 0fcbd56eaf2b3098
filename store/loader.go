package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// rawDocument is the on-disk shape of a corpus entry. The file is a JSON
// object keyed by document id:
//
//	{
//	  "42": {
//	    "title": "...", "content": "...", "url": "...",
//	    "date": "6/28/2024 5:35:28 PM", "tags": ["a", "b"]
//	  },
//	  ...
//	}
type rawDocument struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	URL     string   `json:"url"`
	Date    string   `json:"date"`
	Tags    []string `json:"tags"`
}

// LoadFile reads a corpus file and validates each document. Per-document
// validation failures do not abort the load: valid documents are returned
// alongside the per-document errors, and the caller decides whether to skip
// or abort. The final error is reserved for corpus-wide failures (unreadable
// file, malformed JSON).
func LoadFile(path string) ([]model.Document, []error, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is controlled by application, not user input
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}

	var raw map[string]rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}

	// Deterministic processing order keeps validation-error output stable.
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]model.Document, 0, len(raw))
	var docErrs []error
	for _, id := range ids {
		doc, err := validate(id, raw[id])
		if err != nil {
			docErrs = append(docErrs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, docErrs, nil
}

func validate(id string, raw rawDocument) (model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return model.Document{}, internalErrors.NewDocumentValidationError(id, "id", "document id cannot be empty or whitespace-only")
	}
	if strings.TrimSpace(raw.Title) == "" && strings.TrimSpace(raw.Content) == "" && len(raw.Tags) == 0 {
		return model.Document{}, internalErrors.NewDocumentValidationError(id, "", "document has no indexable text (title, content and tags all empty)")
	}
	date, err := time.Parse(model.DateLayout, strings.TrimSpace(raw.Date))
	if err != nil {
		return model.Document{}, internalErrors.NewDocumentValidationError(id, "date",
			fmt.Sprintf("cannot parse date %q (expected layout %q)", raw.Date, model.DateLayout))
	}

	return model.Document{
		ID:      id,
		Title:   raw.Title,
		Content: raw.Content,
		URL:     raw.URL,
		Tags:    raw.Tags,
		Date:    date,
	}, nil
}
