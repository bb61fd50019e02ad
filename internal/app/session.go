// ABOUTME: Interactive session orchestration
// ABOUTME: Coordinates the song library, equalizer, recommender and playback
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/muzikcalar/muzikcalar-go/internal/config"
	"github.com/muzikcalar/muzikcalar-go/internal/logging"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/decode"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/output"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/resample"
	"github.com/muzikcalar/muzikcalar-go/pkg/dsp/spectrum"
	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
	"github.com/muzikcalar/muzikcalar-go/pkg/recommend"
)

const (
	// outputChannels is the channel layout the device is opened with
	outputChannels = 2

	// chunkDivisor splits playback into 100ms writes so Stop stays responsive
	chunkDivisor = 10

	// analysisFrames bounds the excerpt used for the spectrum balance
	analysisFrames = 1 << 18
)

var (
	// ErrNoSong is returned when a preset is selected before any song was played
	ErrNoSong = errors.New("no song selected")

	// ErrEmptyLibrary is returned by Next and Previous when no songs were scanned
	ErrEmptyLibrary = errors.New("library is empty")

	// ErrNotPlaying is returned by Pause when nothing is playing
	ErrNotPlaying = errors.New("nothing playing")

	// ErrClosed is returned once the session has been closed
	ErrClosed = errors.New("session closed")
)

// Config holds session dependencies
type Config struct {
	Settings *config.Config

	// Output defaults to an oto device
	Output output.Output

	// OnStatus receives a snapshot after every state change
	OnStatus func(Status)

	Logger *zerolog.Logger
}

// Status describes what the session is doing
type Status struct {
	Song    string
	Playing string
	Preset  equalizer.Preset
	Active  bool
	Paused  bool
	Balance spectrum.Balance
	Volume  int
	Muted   bool
	Err     error
}

// deviceFormat is implemented by outputs that report their opened format
type deviceFormat interface {
	Format() (sampleRate, channels int)
}

// Session is the application core driven by the TUI or the line shell
type Session struct {
	settings    *config.Config
	engine      *equalizer.Engine
	recommender *recommend.Recommender
	out         output.Output
	onStatus    func(Status)
	logger      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	songs      []string
	index      int
	status     Status
	outputOpen bool
	closed     bool
	stopPlay   context.CancelFunc
	done       chan struct{}
	resume     chan struct{}
	generation int

	advancing sync.WaitGroup
}

// New creates a session. A corpus that fails to load leaves the
// recommender empty; the session still starts.
func New(cfg Config) (*Session, error) {
	logger := logging.Component("app")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	engine, err := equalizer.New(equalizer.Config{
		ScratchDir: settings.Equalizer.ScratchDir,
		GainDB:     &settings.Equalizer.GainDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create equalizer: %w", err)
	}

	rec := recommend.New(recommend.Config{})
	if settings.Recommend.CorpusPath != "" {
		if err := rec.LoadCorpus(settings.Recommend.CorpusPath); err != nil {
			logger.Warn().Err(err).Msg("recommendations unavailable")
		}
	}

	out := cfg.Output
	if out == nil {
		out = output.NewOto(logging.Component("output"))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		settings:    settings,
		engine:      engine,
		recommender: rec,
		out:         out,
		onStatus:    cfg.OnStatus,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		index:       -1,
		status:      Status{Volume: settings.Playback.Volume},
	}, nil
}

// Engine returns the session's equalizer
func (s *Session) Engine() *equalizer.Engine {
	return s.engine
}

// Recommender returns the session's recommender
func (s *Session) Recommender() *recommend.Recommender {
	return s.recommender
}

// Status returns a snapshot of the session state
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Songs returns the last library scan
func (s *Session) Songs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.songs...)
}

// ScanLibrary lists the audio files under the songs directory, including
// subdirectories, sorted by path. Unreadable subdirectories are skipped.
func (s *Session) ScanLibrary() ([]string, error) {
	dir := s.settings.Library.SongsDir

	var songs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			s.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && audio.IsAudioFile(d.Name()) {
			songs = append(songs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read songs directory: %w", err)
	}
	sort.Strings(songs)

	s.mu.Lock()
	s.songs = songs
	s.index = indexOf(songs, s.status.Song)
	s.mu.Unlock()

	s.logger.Info().Str("dir", dir).Int("songs", len(songs)).Msg("library scanned")
	return append([]string(nil), songs...), nil
}

// Play selects path as the current song and plays it unprocessed
func (s *Session) Play(path string) error {
	if err := s.start(path, path, equalizer.Normal); err != nil {
		s.report(func(st *Status) { st.Err = err })
		return err
	}
	return nil
}

// Next plays the library song after the current one, wrapping at the end.
// With no current song it plays the first.
func (s *Session) Next() error {
	return s.step(1)
}

// Previous plays the library song before the current one, wrapping at the
// start. With no current song it plays the last.
func (s *Session) Previous() error {
	return s.step(-1)
}

func (s *Session) step(delta int) error {
	s.mu.Lock()
	n := len(s.songs)
	if n == 0 {
		s.mu.Unlock()
		return ErrEmptyLibrary
	}
	idx := s.index
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + delta + n) % n
	}
	song := s.songs[idx]
	s.mu.Unlock()

	return s.Play(song)
}

// Pause toggles between paused and playing. It returns the new paused state.
func (s *Session) Pause() (bool, error) {
	s.mu.Lock()
	if s.stopPlay == nil || !s.status.Active {
		s.mu.Unlock()
		return false, ErrNotPlaying
	}
	paused := s.resume == nil
	if paused {
		s.resume = make(chan struct{})
	} else {
		close(s.resume)
		s.resume = nil
	}
	s.mu.Unlock()

	s.report(func(st *Status) { st.Paused = paused })
	s.logger.Info().Bool("paused", paused).Msg("playback toggled")
	return paused, nil
}

// SelectPreset processes the current song and plays the result. On failure
// the current playback continues and the error is returned.
func (s *Session) SelectPreset(p equalizer.Preset) (string, error) {
	s.mu.Lock()
	song, closed := s.status.Song, s.closed
	s.mu.Unlock()

	if closed {
		return "", ErrClosed
	}
	if song == "" {
		return "", ErrNoSong
	}

	processed, err := s.engine.Apply(p, song, "")
	if processed == "" {
		s.report(func(st *Status) { st.Err = err })
		return "", err
	}

	if err := s.start(song, processed, p); err != nil {
		s.report(func(st *Status) { st.Err = err })
		return "", err
	}
	return processed, nil
}

// Recommend returns the songs most similar to title
func (s *Session) Recommend(title string) ([]recommend.Match, error) {
	return s.recommender.Similar(title, s.settings.Recommend.Count)
}

// SetVolume changes the output volume when the device supports it
func (s *Session) SetVolume(volume int, muted bool) {
	if vc, ok := s.out.(output.VolumeControl); ok {
		vc.SetVolume(volume)
		vc.SetMuted(muted)
		volume = vc.GetVolume()
	}
	s.report(func(st *Status) {
		st.Volume = volume
		st.Muted = muted
	})
}

// start decodes path before touching the current playback so a bad file
// leaves the previous song playing.
func (s *Session) start(song, path string, p equalizer.Preset) error {
	buf, err := decode.File(path)
	if err != nil {
		return err
	}

	if err := s.openOutput(); err != nil {
		return err
	}

	rate, channels := s.settings.Playback.SampleRate, outputChannels
	if df, ok := s.out.(deviceFormat); ok {
		rate, channels = df.Format()
	}
	balance := spectrum.SplitBalance(excerpt(buf, analysisFrames), balanceSplit(p))
	pcm := resample.Buffer(buf.Remix(channels), rate)

	s.halt()

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return ErrClosed
	}
	s.generation++
	gen := s.generation
	s.stopPlay = cancel
	s.done = done
	if idx := indexOf(s.songs, song); idx >= 0 {
		s.index = idx
	}
	s.mu.Unlock()

	s.report(func(st *Status) {
		st.Song = song
		st.Playing = path
		st.Preset = p
		st.Active = true
		st.Paused = false
		st.Balance = balance
		st.Err = nil
	})

	s.logger.Info().
		Str("song", filepath.Base(song)).
		Str("preset", p.String()).
		Float64("low", balance.Low).
		Float64("high", balance.High).
		Msg("playback started")

	go s.stream(ctx, pcm, gen, done)
	return nil
}

func (s *Session) openOutput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.outputOpen {
		return nil
	}
	if err := s.out.Open(s.settings.Playback.SampleRate, outputChannels, 16); err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}
	if vc, ok := s.out.(output.VolumeControl); ok {
		vc.SetVolume(s.settings.Playback.Volume)
	}
	s.outputOpen = true
	return nil
}

// stream writes buf to the output in small chunks until done or cancelled.
// A song that plays to the end hands over to the next one when auto
// advance is on.
func (s *Session) stream(ctx context.Context, buf *audio.Buffer, gen int, done chan struct{}) {
	defer close(done)

	chunk := buf.Format.SampleRate / chunkDivisor * buf.Format.Channels
	if chunk <= 0 {
		chunk = len(buf.Samples)
	}

	var err error
	for off := 0; off < len(buf.Samples); off += chunk {
		if resume := s.pauseGate(); resume != nil {
			select {
			case <-resume:
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
		end := min(off+chunk, len(buf.Samples))
		if err = s.out.Write(buf.Samples[off:end]); err != nil {
			s.logger.Error().Err(err).Msg("playback failed")
			break
		}
	}

	s.mu.Lock()
	current := gen == s.generation && !s.closed
	advance := current && err == nil && s.settings.Playback.AutoAdvance && len(s.songs) > 0
	if advance {
		s.advancing.Add(1)
	}
	s.mu.Unlock()
	if !current || ctx.Err() != nil {
		if advance {
			s.advancing.Done()
		}
		return
	}

	s.report(func(st *Status) {
		st.Active = false
		st.Paused = false
		st.Err = err
	})
	if advance {
		go s.advance(gen)
	}
}

func (s *Session) pauseGate() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume
}

// advance plays the next song unless something else started since
// generation gen finished
func (s *Session) advance(gen int) {
	defer s.advancing.Done()

	s.mu.Lock()
	stale := gen != s.generation || s.closed
	s.mu.Unlock()
	if stale {
		return
	}

	if err := s.Next(); err != nil {
		s.logger.Warn().Err(err).Msg("auto advance failed")
	}
}

// halt cancels the writer and waits for it to exit
func (s *Session) halt() {
	s.mu.Lock()
	cancel, done := s.stopPlay, s.done
	s.stopPlay, s.done, s.resume = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Stop halts playback and removes the files generated for it
func (s *Session) Stop() {
	s.mu.Lock()
	wasActive := s.status.Active || s.status.Paused
	s.mu.Unlock()

	s.halt()
	if n := s.engine.CleanTempFiles(); n > 0 {
		s.logger.Debug().Int("removed", n).Msg("generated files removed")
	}

	if wasActive {
		s.report(func(st *Status) {
			st.Active = false
			st.Paused = false
		})
	}
}

// Close stops playback, releases the device and removes generated files.
// Later calls that would start playback return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.halt()
	s.cancel()
	s.advancing.Wait()

	var errs []error
	if err := s.out.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close output: %w", err))
	}
	if err := s.engine.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) report(update func(*Status)) {
	s.mu.Lock()
	update(&s.status)
	st := s.status
	s.mu.Unlock()

	if s.onStatus != nil {
		s.onStatus(st)
	}
}

// excerpt returns at most frames frames from the middle of buf
func excerpt(buf *audio.Buffer, frames int) *audio.Buffer {
	total := buf.Frames()
	if total <= frames {
		return buf
	}
	ch := buf.Format.Channels
	start := (total - frames) / 2
	return &audio.Buffer{
		Samples: buf.Samples[start*ch : (start+frames)*ch],
		Format:  buf.Format,
		Source:  buf.Source,
	}
}

// balanceSplit picks the frequency the status balance is measured around
func balanceSplit(p equalizer.Preset) float64 {
	if cutoff := p.Cutoff(); cutoff > 0 {
		return cutoff
	}
	return equalizer.BassCutoffHz
}

func indexOf(songs []string, song string) int {
	if song == "" {
		return -1
	}
	for i, candidate := range songs {
		if candidate == song {
			return i
		}
	}
	return -1
}
