// ABOUTME: Entry point for the Muzikcalar player
// ABOUTME: Parses CLI flags, loads config and runs the TUI or line shell
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzikcalar/muzikcalar-go/internal/app"
	"github.com/muzikcalar/muzikcalar-go/internal/config"
	"github.com/muzikcalar/muzikcalar-go/internal/logging"
	"github.com/muzikcalar/muzikcalar-go/internal/ui"
	"github.com/muzikcalar/muzikcalar-go/internal/version"
)

var (
	configPath  = flag.String("config", "", "Config file (default: $MUZIKCALAR_CONFIG)")
	songsDir    = flag.String("songs", "", "Songs directory (overrides config)")
	corpusPath  = flag.String("corpus", "", "Song corpus JSON (overrides config)")
	logFile     = flag.String("log-file", "", "Log file path (overrides config)")
	logLevel    = flag.String("log-level", "", "Log level (overrides config)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use a line shell and streaming logs instead")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	useTUI := !*noTUI

	// Set up logging
	var logOut io.Writer = os.Stdout
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer func() { _ = f.Close() }()

		if useTUI {
			// TUI mode: log only to file
			logOut = f
		} else {
			// Shell mode: log to both stdout and file
			logOut = io.MultiWriter(os.Stdout, f)
		}
	} else if useTUI {
		logOut = io.Discard
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOut,
	})
	logger := logging.Component("main")
	logger.Info().Str("version", version.Version).Bool("tui", useTUI).Msg("starting " + version.Product)

	// TUI setup
	var tuiProg *tea.Program
	var controls *ui.Controls
	tuiDone := make(chan struct{})

	if useTUI {
		controls = ui.NewControls()
		tuiProg, err = ui.Run(controls, cfg.Playback.Volume)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				logger.Error().Err(err).Msg("TUI failed")
			}
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	session, err := app.New(app.Config{
		Settings: cfg,
		OnStatus: func(st app.Status) { updateTUI(statusMsg(st)) },
	})
	if err != nil {
		if tuiProg != nil {
			tuiProg.Quit()
			<-tuiDone
		}
		log.Fatalf("Failed to start session: %v", err)
	}

	songs, err := session.ScanLibrary()
	if err != nil {
		logger.Warn().Err(err).Msg("no songs loaded")
		updateTUI(ui.StatusMsg{Err: err})
	}
	updateTUI(ui.StatusMsg{Songs: songs})
	if !session.Recommender().Ready() {
		updateTUI(ui.StatusMsg{Message: "Recommendations unavailable, see log"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shellDone := make(chan struct{})
	controlsDone := make(chan struct{})
	if controls != nil {
		go func() {
			defer close(controlsDone)
			handleControls(ctx, session, controls, updateTUI)
		}()
	} else {
		close(controlsDone)
		go func() {
			defer close(shellDone)
			if err := app.RunShell(ctx, session, os.Stdin, os.Stdout); err != nil {
				logger.Error().Err(err).Msg("shell failed")
			}
		}()
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for quit from the TUI, the shell or the OS
	if controls != nil {
		select {
		case <-controls.Quit:
			logger.Info().Msg("received quit signal from TUI")
		case <-tuiDone:
			logger.Info().Msg("TUI exited")
		case <-sigChan:
			logger.Info().Msg("shutdown signal received")
		}
	} else {
		select {
		case <-shellDone:
		case <-sigChan:
			logger.Info().Msg("shutdown signal received")
		}
	}
	cancel()
	// A request already in flight finishes before the session goes away
	<-controlsDone

	if err := session.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing session")
	}

	if tuiProg != nil {
		tuiProg.Quit()
		<-tuiDone
	}

	logger.Info().Msg("stopped")
}

func applyFlags(cfg *config.Config) {
	if *songsDir != "" {
		cfg.Library.SongsDir = *songsDir
	}
	if *corpusPath != "" {
		cfg.Recommend.CorpusPath = *corpusPath
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
}

// handleControls forwards TUI requests to the session
func handleControls(ctx context.Context, session *app.Session, controls *ui.Controls, updateTUI func(ui.StatusMsg)) {
	for {
		select {
		case path := <-controls.Play:
			// Failures reach the TUI through the status callback
			_ = session.Play(path)

		case p := <-controls.Preset:
			_, _ = session.SelectPreset(p)

		case <-controls.Stop:
			session.Stop()

		case <-controls.Pause:
			if _, err := session.Pause(); err != nil {
				updateTUI(ui.StatusMsg{Err: err})
			}

		case <-controls.Next:
			if err := session.Next(); errors.Is(err, app.ErrEmptyLibrary) {
				updateTUI(ui.StatusMsg{Err: err})
			}

		case <-controls.Previous:
			if err := session.Previous(); errors.Is(err, app.ErrEmptyLibrary) {
				updateTUI(ui.StatusMsg{Err: err})
			}

		case query := <-controls.Recommend:
			matches, err := session.Recommend(query)
			updateTUI(ui.StatusMsg{RecommendFor: query, Recommendations: matches, Err: err})

		case vol := <-controls.Volume:
			logging.Debug().Int("volume", vol.Volume).Bool("muted", vol.Muted).Msg("volume change")
			session.SetVolume(vol.Volume, vol.Muted)

		case <-ctx.Done():
			return
		}
	}
}

// statusMsg converts a session snapshot into a TUI update
func statusMsg(st app.Status) ui.StatusMsg {
	active, paused, volume, muted := st.Active, st.Paused, st.Volume, st.Muted
	msg := ui.StatusMsg{
		Song:    st.Song,
		Playing: st.Playing,
		Preset:  st.Preset,
		Balance: st.Balance,
		Active:  &active,
		Paused:  &paused,
		Volume:  &volume,
		Muted:   &muted,
		Err:     st.Err,
	}
	if st.Err == nil && st.Active && !st.Paused {
		msg.Message = fmt.Sprintf("%s applied", st.Preset)
	}
	return msg
}
