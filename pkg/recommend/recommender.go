// ABOUTME: Content-based song recommender over a JSON corpus
// ABOUTME: Swaps whole corpora atomically and answers title queries by cosine similarity
package recommend

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/muzikcalar/muzikcalar-go/internal/logging"
)

// DefaultCount is the number of recommendations returned when unspecified
const DefaultCount = 5

// Config configures a Recommender
type Config struct {
	// Logger defaults to the "recommend" component logger
	Logger *zerolog.Logger
}

// Recommender answers similarity queries. It starts empty; LoadCorpus makes
// it ready. Methods are safe for concurrent use.
type Recommender struct {
	logger zerolog.Logger

	mu     sync.RWMutex
	corpus *Corpus
}

// New creates an empty recommender
func New(cfg Config) *Recommender {
	logger := logging.Component("recommend")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Recommender{logger: logger}
}

// LoadCorpus reads and vectorizes a corpus file. On success the new corpus
// replaces the old one. On failure the recommender is left empty and a
// *CorpusLoadError is returned.
func (r *Recommender) LoadCorpus(path string) error {
	corpus, err := loadCorpus(path)

	r.mu.Lock()
	r.corpus = corpus
	r.mu.Unlock()

	if err != nil {
		loadErr := &CorpusLoadError{Path: path, Err: err}
		event := r.logger.Error().Err(err).Str("path", path)
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			event = event.Int("record", missing.Index).Strs("missing", missing.Fields).Strs("required", RequiredFields)
		}
		event.Msg("corpus not loaded, recommendations disabled")
		return loadErr
	}

	r.logger.Info().Str("path", path).Int("songs", corpus.Len()).Int("terms", len(corpus.Vocabulary())).Msg("corpus loaded")
	return nil
}

func loadCorpus(path string) (*Corpus, error) {
	songs, err := ReadSongs(path)
	if err != nil {
		return nil, err
	}
	return NewCorpus(songs)
}

// Corpus returns the loaded corpus or nil
func (r *Recommender) Corpus() *Corpus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.corpus
}

// Ready reports whether a corpus is loaded
func (r *Recommender) Ready() bool {
	return r.Corpus() != nil
}

// Len returns the number of songs in the loaded corpus
func (r *Recommender) Len() int {
	if c := r.Corpus(); c != nil {
		return c.Len()
	}
	return 0
}

// Titles returns the corpus titles in order
func (r *Recommender) Titles() []string {
	if c := r.Corpus(); c != nil {
		return c.Titles()
	}
	return nil
}

// Similar returns up to k songs most similar to title, never including the
// song itself. It fails with ErrEmptyCorpus or a *NotFoundError.
func (r *Recommender) Similar(title string, k int) ([]Match, error) {
	c := r.Corpus()
	if c == nil {
		return nil, ErrEmptyCorpus
	}

	q, ok := c.Lookup(title)
	if !ok {
		return nil, &NotFoundError{Title: title}
	}
	return c.Nearest(q, k), nil
}

// Recommend returns up to k titles similar to title. Problems are logged
// and yield an empty result.
func (r *Recommender) Recommend(title string, k int) []string {
	matches, err := r.Similar(title, k)
	switch {
	case errors.Is(err, ErrEmptyCorpus):
		r.logger.Warn().Str("title", title).Msg("cannot recommend, no corpus loaded")
		return []string{}
	case errors.Is(err, ErrNotFound):
		r.logger.Info().Str("title", title).Msg("song not found in corpus")
		return []string{}
	}

	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = m.Title
	}
	return titles
}
