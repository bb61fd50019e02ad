// ABOUTME: Command-line song recommender
// ABOUTME: Loads a JSON corpus and prints the titles most similar to a query
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/muzikcalar/muzikcalar-go/internal/config"
	"github.com/muzikcalar/muzikcalar-go/internal/logging"
	"github.com/muzikcalar/muzikcalar-go/pkg/recommend"
)

var (
	configPath = flag.String("config", "", "Config file (default: $MUZIKCALAR_CONFIG)")
	corpusPath = flag.String("corpus", "", "Song corpus JSON (default: from config)")
	title      = flag.String("title", "", "Title to find similar songs for")
	count      = flag.Int("k", 0, "Number of recommendations (default: from config)")
	scores     = flag.Bool("scores", false, "Print similarity scores")
	list       = flag.Bool("list", false, "List corpus titles and exit")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	level := cfg.Logging.Level
	if *debug {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: cfg.Logging.Format, Output: os.Stderr})

	path := cfg.Recommend.CorpusPath
	if *corpusPath != "" {
		path = *corpusPath
	}
	k := cfg.Recommend.Count
	if *count != 0 {
		k = *count
	}

	rec := recommend.New(recommend.Config{})
	if err := rec.LoadCorpus(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *list {
		for _, t := range rec.Titles() {
			fmt.Println(t)
		}
		return 0
	}

	if *title == "" {
		fmt.Fprintln(os.Stderr, `usage: muzikcalar-recommend -corpus song_data.json -title "Song A" [-k 5] [-scores]`)
		return 2
	}

	matches, err := rec.Similar(*title, k)
	if errors.Is(err, recommend.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "%q not found in %s\n", *title, path)
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	for i, m := range matches {
		if *scores {
			fmt.Printf("%d. %s\t%.4f\n", i+1, m.Title, m.Score)
		} else {
			fmt.Println(m.Title)
		}
	}
	return 0
}
