// ABOUTME: Error types reported by the recommender
// ABOUTME: CorpusLoadError, NotFoundError and the empty-corpus sentinel
package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusLoad matches any corpus load failure
	ErrCorpusLoad = errors.New("corpus load failed")

	// ErrNotFound matches a query title absent from the corpus
	ErrNotFound = errors.New("song not found")

	// ErrEmptyCorpus is returned when no usable corpus is loaded
	ErrEmptyCorpus = errors.New("no corpus loaded")
)

// CorpusLoadError reports a missing, malformed or incomplete corpus file
type CorpusLoadError struct {
	Path string
	Err  error
}

func (e *CorpusLoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %v", e.Path, e.Err)
}

func (e *CorpusLoadError) Unwrap() []error {
	return []error{ErrCorpusLoad, e.Err}
}

// MissingFieldsError names the record and fields that failed validation
type MissingFieldsError struct {
	Index  int
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("record %d is missing required fields %v", e.Index, e.Fields)
}

// NotFoundError reports a title with no match in the corpus
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found in corpus", e.Title)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
