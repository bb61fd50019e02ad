// ABOUTME: Command-line equalizer for a single audio file
// ABOUTME: Applies a preset, prints the output path and cleans up generated files
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/muzikcalar/muzikcalar-go/internal/config"
	"github.com/muzikcalar/muzikcalar-go/internal/logging"
	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
)

var (
	configPath = flag.String("config", "", "Config file (default: $MUZIKCALAR_CONFIG)")
	presetName = flag.String("preset", "bass", "Preset: normal, bass or treble")
	input      = flag.String("in", "", "Input audio file (WAV, FLAC, MP3, Ogg Opus or Vorbis)")
	output     = flag.String("out", "", "Output file (default: generated in a scratch directory)")
	gain       = flag.Float64("gain", 0, "Boost in dB (default: from config)")
	keep       = flag.Bool("keep", false, "Keep generated files after exit")
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

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: muzikcalar-eq -preset bass -in song.wav [-out out.wav] [-gain 6] [-keep]")
		return 2
	}

	preset, err := equalizer.ParsePreset(*presetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	gainDB := cfg.Equalizer.GainDB
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "gain" {
			gainDB = *gain
		}
	})

	eng, err := equalizer.New(equalizer.Config{
		ScratchDir: cfg.Equalizer.ScratchDir,
		GainDB:     &gainDB,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create equalizer: %v\n", err)
		return 1
	}

	path, err := eng.Apply(preset, *input, *output)
	if path == "" {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", preset, err)
		_ = eng.Close()
		return 1
	}

	fmt.Println(path)

	if *keep {
		return 0
	}
	if removed := eng.CleanTempFiles(); removed > 0 {
		logging.Warn().Int("removed", removed).Msg("generated files removed; pass -keep or -out to retain them")
	}
	if err := eng.Close(); err != nil {
		logging.Error().Err(err).Msg("failed to remove scratch directory")
	}
	return 0
}
