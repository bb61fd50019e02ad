// ABOUTME: Equalizer engine producing processed copies of audio files
// ABOUTME: Owns a private scratch directory and the list of files it generated
package equalizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/muzikcalar/muzikcalar-go/internal/logging"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/decode"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/encode"
)

// Config configures an Engine
type Config struct {
	// ScratchDir is the parent of the engine's private directory (os.TempDir if empty)
	ScratchDir string

	// GainDB is the boost used by Apply (DefaultGainDB if nil)
	GainDB *float64

	// Logger defaults to the "equalizer" component logger
	Logger *zerolog.Logger
}

// Engine applies presets to audio files. Methods are safe for concurrent use.
type Engine struct {
	scratch string
	gainDB  float64
	logger  zerolog.Logger

	mu      sync.Mutex
	tracked []string
	seen    map[string]struct{}
}

// New creates an engine with its own scratch directory
func New(cfg Config) (*Engine, error) {
	logger := logging.Component("equalizer")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	parent := cfg.ScratchDir
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch parent: %w", err)
	}

	scratch := filepath.Join(parent, "muzikcalar-"+uuid.NewString())
	if err := os.Mkdir(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	gain := DefaultGainDB
	if cfg.GainDB != nil {
		gain = *cfg.GainDB
	}

	logger.Debug().Str("scratch", scratch).Float64("gain_db", gain).Msg("equalizer ready")

	return &Engine{
		scratch: scratch,
		gainDB:  gain,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}, nil
}

// ScratchDir returns the directory generated files are written to
func (e *Engine) ScratchDir() string {
	return e.scratch
}

// GainDB returns the boost used by Apply
func (e *Engine) GainDB() float64 {
	return e.gainDB
}

// ApplyBassBoost boosts content below 100 Hz by gainDB.
// An empty output generates a tracked path in the scratch directory.
// On failure it returns "" and a *DecodeError or *ExportError.
func (e *Engine) ApplyBassBoost(input, output string, gainDB float64) (string, error) {
	return e.process(BassBoost, input, output, gainDB)
}

// ApplyTrebleBoost boosts content above 2000 Hz by gainDB
func (e *Engine) ApplyTrebleBoost(input, output string, gainDB float64) (string, error) {
	return e.process(TrebleBoost, input, output, gainDB)
}

// ResetAudio writes an unfiltered copy of input
func (e *Engine) ResetAudio(input, output string) (string, error) {
	return e.process(Normal, input, output, 0)
}

// Apply runs a preset with the engine's configured gain
func (e *Engine) Apply(p Preset, input, output string) (string, error) {
	switch p {
	case BassBoost:
		return e.ApplyBassBoost(input, output, e.gainDB)
	case TrebleBoost:
		return e.ApplyTrebleBoost(input, output, e.gainDB)
	case Normal:
		return e.ResetAudio(input, output)
	}
	err := fmt.Errorf("unknown preset: %d", int(p))
	e.logger.Error().Err(err).Str("input", input).Msg("preset not applied")
	return "", err
}

func (e *Engine) process(p Preset, input, output string, gainDB float64) (string, error) {
	log := e.logger.With().Str("preset", p.String()).Str("input", input).Logger()

	buf, err := decode.File(input)
	if err != nil {
		return e.fail(log, &DecodeError{Path: input, Err: err})
	}

	result, err := Render(buf, p, gainDB)
	if err != nil {
		return e.fail(log, &DecodeError{Path: input, Err: err})
	}

	generated := output == ""
	if generated {
		output = e.GeneratedPath(input, p)
	}

	if sameFile(input, output) {
		return e.fail(log, &ExportError{Path: output, Err: ErrSameFile})
	}

	if err := encode.File(output, result); err != nil {
		return e.fail(log, &ExportError{Path: output, Err: err})
	}

	if generated {
		e.track(output)
	}

	log.Info().Str("output", output).Float64("gain_db", gainDB).Msg("preset applied")
	return output, nil
}

func (e *Engine) fail(log zerolog.Logger, err error) (string, error) {
	log.Error().Err(err).Msg("preset not applied")
	return "", err
}

// GeneratedPath returns <scratch>/<name>_<suffix><ext> for an input file
func (e *Engine) GeneratedPath(input string, p Preset) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(e.scratch, name+"_"+p.Suffix()+ext)
}

func (e *Engine) track(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.seen[path]; ok {
		return
	}
	e.seen[path] = struct{}{}
	e.tracked = append(e.tracked, path)
}

// Generated returns the paths generated since the last cleanup
func (e *Engine) Generated() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, len(e.tracked))
	copy(out, e.tracked)
	return out
}

// CleanTempFiles deletes every generated path and clears the list. Missing
// files are ignored. It returns the number of files removed.
func (e *Engine) CleanTempFiles() int {
	e.mu.Lock()
	paths := e.tracked
	e.tracked = nil
	e.seen = make(map[string]struct{})
	e.mu.Unlock()

	removed := 0
	for _, path := range paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
			e.logger.Debug().Str("path", path).Msg("temp file removed")
		case errors.Is(err, os.ErrNotExist):
		default:
			e.logger.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
		}
	}
	return removed
}

// Close removes generated files and the scratch directory
func (e *Engine) Close() error {
	e.CleanTempFiles()
	if err := os.RemoveAll(e.scratch); err != nil {
		return fmt.Errorf("failed to remove scratch directory: %w", err)
	}
	return nil
}

// sameFile reports whether a and b name the same file
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
