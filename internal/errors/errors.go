package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidDocument is returned when a corpus document fails validation
	ErrInvalidDocument = errors.New("invalid document")

	// ErrCacheStale is returned when a persisted index no longer matches the corpus
	ErrCacheStale = errors.New("index cache is stale")

	// ErrCacheCorrupt is returned when a persisted index cannot be decoded
	ErrCacheCorrupt = errors.New("index cache is corrupt")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// DocumentValidationError reports a per-document validation failure.
// It identifies the offending document so the caller can decide whether to
// skip it or abort the whole load.
type DocumentValidationError struct {
	DocID   string
	Field   string
	Message string
}

func (e *DocumentValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("document '%s': field '%s': %s", e.DocID, e.Field, e.Message)
	}
	return fmt.Sprintf("document '%s': %s", e.DocID, e.Message)
}

func (e *DocumentValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// NewDocumentValidationError creates a new DocumentValidationError
func NewDocumentValidationError(docID, field, message string) *DocumentValidationError {
	return &DocumentValidationError{DocID: docID, Field: field, Message: message}
}

// CacheStaleError reports that a persisted index was written for a different
// corpus than the one currently loaded. It is always recoverable: the caller
// rebuilds from documents.
type CacheStaleError struct {
	Path            string
	WantFingerprint string
	GotFingerprint  string
}

func (e *CacheStaleError) Error() string {
	return fmt.Sprintf("index cache at '%s' is stale (fingerprint %s, corpus is %s)",
		e.Path, e.GotFingerprint, e.WantFingerprint)
}

func (e *CacheStaleError) Is(target error) bool {
	return target == ErrCacheStale
}

// NewCacheStaleError creates a new CacheStaleError
func NewCacheStaleError(path, want, got string) *CacheStaleError {
	return &CacheStaleError{Path: path, WantFingerprint: want, GotFingerprint: got}
}

// CacheCorruptError reports that a persisted index could not be decoded or
// failed shape validation. Like staleness it triggers a full rebuild, never a
// partially-parsed index.
type CacheCorruptError struct {
	Path    string
	Message string
}

func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("index cache at '%s' is corrupt: %s", e.Path, e.Message)
}

func (e *CacheCorruptError) Is(target error) bool {
	return target == ErrCacheCorrupt
}

// NewCacheCorruptError creates a new CacheCorruptError
func NewCacheCorruptError(path, message string) *CacheCorruptError {
	return &CacheCorruptError{Path: path, Message: message}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
