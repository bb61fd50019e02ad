// ABOUTME: Song records and corpus file parsing
// ABOUTME: Validates that every record carries title, artist, genre and keywords
package recommend

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// RequiredFields lists the keys every corpus record must carry
var RequiredFields = []string{"title", "artist", "genre", "keywords"}

// Song is one corpus record
type Song struct {
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Genre    string   `json:"genre"`
	Keywords []string `json:"keywords"`
}

// rawSong distinguishes absent or null fields from empty ones
type rawSong struct {
	Title    *string   `json:"title"`
	Artist   *string   `json:"artist"`
	Genre    *string   `json:"genre"`
	Keywords *[]string `json:"keywords"`
}

func (r rawSong) missing() []string {
	var fields []string
	if r.Title == nil {
		fields = append(fields, "title")
	}
	if r.Artist == nil {
		fields = append(fields, "artist")
	}
	if r.Genre == nil {
		fields = append(fields, "genre")
	}
	if r.Keywords == nil {
		fields = append(fields, "keywords")
	}
	return fields
}

// ParseSongs decodes a JSON array of song records. Any record lacking a
// required field fails the whole parse with a *MissingFieldsError.
func ParseSongs(data []byte) ([]Song, error) {
	var raw []rawSong
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid corpus json: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("corpus has no records")
	}

	songs := make([]Song, len(raw))
	for i, r := range raw {
		if fields := r.missing(); len(fields) > 0 {
			return nil, &MissingFieldsError{Index: i, Fields: fields}
		}
		songs[i] = Song{
			Title:    *r.Title,
			Artist:   *r.Artist,
			Genre:    *r.Genre,
			Keywords: append([]string(nil), (*r.Keywords)...),
		}
	}
	return songs, nil
}

// ReadSongs reads and parses a corpus file
func ReadSongs(path string) ([]Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSongs(data)
}

// Features returns the combined text used for vectorizing: genre, artist and
// each keyword lower-cased with spaces removed, joined by single spaces
func (s Song) Features() string {
	parts := make([]string, 0, len(s.Keywords)+2)
	parts = append(parts, squash(s.Genre), squash(s.Artist))
	for _, kw := range s.Keywords {
		parts = append(parts, squash(kw))
	}
	return strings.Join(parts, " ")
}

func squash(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}
