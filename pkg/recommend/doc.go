// ABOUTME: Recommend package ranking songs by textual feature similarity
// ABOUTME: Documents the corpus format and the ranking rules
// Package recommend implements a content-based song recommender.
//
// A corpus is a JSON array of {"title", "artist", "genre", "keywords"}
// records. Genre, artist and keywords are lower-cased, stripped of spaces
// and joined into one document per song, which is weighted with TF-IDF
// after removing English stop words.
//
// Queries match titles case-insensitively and rank every other song by
// cosine similarity. Ties keep corpus order.
//
// Example:
//
//	rec := recommend.New(recommend.Config{})
//	if err := rec.LoadCorpus("song_data.json"); err != nil {
//		// rec stays empty, Recommend returns nothing
//	}
//	titles := rec.Recommend("Song A", recommend.DefaultCount)
package recommend
