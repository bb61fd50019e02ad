// ABOUTME: Line-oriented command shell for running without the TUI
// ABOUTME: Reads commands from a reader and drives the session
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
)

const shellHelp = `Commands:
  list               list songs
  play <n|path>      play a song
  pause              pause or resume playback
  next | prev        play the next or previous song
  normal|bass|treble apply a preset to the current song
  similar <title>    recommend similar songs
  volume <0-100>     set the volume
  stop               stop playback
  status             show what is playing
  quit               exit`

// ErrQuit is returned by a shell command that ends the session
var ErrQuit = errors.New("quit")

// RunShell executes commands from in until EOF, quit or ctx is done
func RunShell(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	_, _ = fmt.Fprintln(out, shellHelp)

	for {
		if ctx.Err() != nil {
			return nil
		}
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := s.Exec(scanner.Text(), out)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			_, _ = fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// Exec runs a single shell command
func (s *Session) Exec(line string, out io.Writer) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		_, _ = fmt.Fprintln(out, shellHelp)
	case "quit", "exit", "q":
		return ErrQuit
	case "list", "ls":
		songs, err := s.ScanLibrary()
		if err != nil {
			return err
		}
		for i, song := range songs {
			_, _ = fmt.Fprintf(out, "%3d. %s\n", i+1, filepath.Base(song))
		}
	case "play":
		path, err := s.resolveSong(arg)
		if err != nil {
			return err
		}
		if err := s.Play(path); err != nil {
			return err
		}
		s.printStatus(out)
	case "pause":
		if _, err := s.Pause(); err != nil {
			return err
		}
		s.printStatus(out)
	case "next", "prev", "previous":
		step := s.Next
		if cmd != "next" {
			step = s.Previous
		}
		if len(s.Songs()) == 0 {
			if _, err := s.ScanLibrary(); err != nil {
				return err
			}
		}
		if err := step(); err != nil {
			return err
		}
		s.printStatus(out)
	case "stop":
		s.Stop()
	case "status":
		s.printStatus(out)
	case "similar", "rec":
		if arg == "" {
			return fmt.Errorf("usage: similar <title>")
		}
		matches, err := s.Recommend(arg)
		if err != nil {
			return err
		}
		for i, m := range matches {
			_, _ = fmt.Fprintf(out, "%3d. %s (%.3f)\n", i+1, m.Title, m.Score)
		}
	case "volume", "vol":
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 || v > 100 {
			return fmt.Errorf("invalid volume: %q", arg)
		}
		s.SetVolume(v, false)
	default:
		p, err := equalizer.ParsePreset(line)
		if err != nil {
			return fmt.Errorf("unknown command: %q", cmd)
		}
		if _, err := s.SelectPreset(p); err != nil {
			return err
		}
		s.printStatus(out)
	}
	return nil
}

// resolveSong accepts a 1-based index into the last scan or a path
func (s *Session) resolveSong(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("usage: play <n|path>")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}

	songs := s.Songs()
	if len(songs) == 0 {
		if songs, err = s.ScanLibrary(); err != nil {
			return "", err
		}
	}
	if n < 1 || n > len(songs) {
		return "", fmt.Errorf("no song %d (have %d)", n, len(songs))
	}
	return songs[n-1], nil
}

func (s *Session) printStatus(out io.Writer) {
	st := s.Status()
	if st.Song == "" {
		_, _ = fmt.Fprintln(out, "nothing playing")
		return
	}
	state := "stopped"
	switch {
	case st.Paused:
		state = "paused"
	case st.Active:
		state = "playing"
	}
	_, _ = fmt.Fprintf(out, "%s %s [%s] low %.0f%% high %.0f%%\n",
		state, filepath.Base(st.Song), st.Preset, st.Balance.Low*100, st.Balance.High*100)
}
