package model

import (
	"time"
)

// DateLayout is the publication-date format used by corpus files,
// e.g. "6/28/2024 5:35:28 PM".
const DateLayout = "1/2/2006 3:04:05 PM"

// Document is a single corpus entry. Documents are immutable once loaded;
// the DocumentStore owns them for the lifetime of a search session.
type Document struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	URL     string    `json:"url,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
	Date    time.Time `json:"date"`
}
