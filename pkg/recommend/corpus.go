// ABOUTME: Immutable corpus of songs with their fitted feature matrix
// ABOUTME: Built in one step so records and vectors can never disagree
package recommend

import (
	"sort"
	"strings"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Corpus holds songs, a case-insensitive title index and one feature row
// per song. It is never modified after NewCorpus returns.
type Corpus struct {
	songs      []Song
	titles     map[string]int
	vectorizer *Vectorizer
	matrix     [][]float64
	norms      []float64
}

// Match is one ranked recommendation
type Match struct {
	Title string
	Score float64
	Index int
}

// NewCorpus vectorizes songs. It fails if the songs yield no vocabulary.
func NewCorpus(songs []Song) (*Corpus, error) {
	docs := make([]string, len(songs))
	for i, s := range songs {
		docs[i] = s.Features()
	}

	vec, err := Fit(docs)
	if err != nil {
		return nil, err
	}

	c := &Corpus{
		songs:      append([]Song(nil), songs...),
		titles:     make(map[string]int, len(songs)),
		vectorizer: vec,
		matrix:     make([][]float64, len(songs)),
		norms:      make([]float64, len(songs)),
	}
	for i, s := range songs {
		// First occurrence of a title wins
		key := strings.ToLower(s.Title)
		if _, ok := c.titles[key]; !ok {
			c.titles[key] = i
		}
		c.matrix[i] = vec.Transform(docs[i])
		c.norms[i] = floats.Norm(c.matrix[i], 2)
	}
	return c, nil
}

// Len returns the number of songs
func (c *Corpus) Len() int {
	return len(c.songs)
}

// Song returns the record at row i
func (c *Corpus) Song(i int) Song {
	return c.songs[i]
}

// Titles returns every title in corpus order
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.songs))
	for i, s := range c.songs {
		out[i] = s.Title
	}
	return out
}

// Vocabulary returns the fitted terms in column order
func (c *Corpus) Vocabulary() []string {
	return c.vectorizer.Terms()
}

// Lookup finds the row of a title, ignoring case
func (c *Corpus) Lookup(title string) (int, bool) {
	i, ok := c.titles[strings.ToLower(title)]
	return i, ok
}

// Cosine returns the cosine similarity of rows i and j, 0 if either is a zero row
func (c *Corpus) Cosine(i, j int) float64 {
	if c.norms[i] == 0 || c.norms[j] == 0 {
		return 0
	}
	return vecmath.DotProduct(c.matrix[i], c.matrix[j]) / (c.norms[i] * c.norms[j])
}

// Nearest ranks every other row by similarity to row q, highest first with
// ties kept in corpus order, and returns at most k matches
func (c *Corpus) Nearest(q, k int) []Match {
	if k <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(c.songs)-1)
	for i := range c.songs {
		if i == q {
			continue
		}
		matches = append(matches, Match{Title: c.songs[i].Title, Score: c.Cosine(q, i), Index: i})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
