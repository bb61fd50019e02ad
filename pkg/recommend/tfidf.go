// ABOUTME: Tokenizer and TF-IDF weighting for song feature text
// ABOUTME: Smoothed idf, raw term counts and L2-normalised rows
package recommend

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyVocabulary is returned when no document contains a usable term
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words")

// Tokenize lower-cases text and returns runs of two or more word characters
// (letters, numbers, underscore), dropping stop words. Combining marks
// split tokens, so decomposed text tokenizes differently from composed text.
func Tokenize(text string) []string {
	var tokens []string
	var cur []rune

	flush := func() {
		if len(cur) >= 2 {
			tok := string(cur)
			if !IsStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		cur = cur[:0]
	}

	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Vectorizer holds a fitted vocabulary and its idf weights
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// Fit builds the vocabulary (sorted alphabetically) and smoothed idf
// ln((1+n)/(1+df)) + 1 over the documents
func Fit(docs []string) (*Vectorizer, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = Tokenize(doc)
		seen := make(map[string]struct{})
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v, nil
}

// Terms returns the vocabulary in column order
func (v *Vectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Transform returns the L2-normalised tf-idf row for a document. Unknown
// terms are ignored and a document with no known terms yields a zero row.
func (v *Vectorizer) Transform(doc string) []float64 {
	row := make([]float64, len(v.terms))
	for _, tok := range Tokenize(doc) {
		if col, ok := v.vocabulary[tok]; ok {
			row[col]++
		}
	}

	floats.Mul(row, v.idf)
	if norm := floats.Norm(row, 2); norm > 0 {
		floats.Scale(1/norm, row)
	}
	return row
}
