package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/document"
)

const watchDebounce = 150 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <note|dir>",
		Short: "Bloom a note every time it is saved",
		Long: `Watches a note, or every note in a directory, and blooms the saved note
in the terminal after each change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if info, err := os.Stat(target); err != nil || !info.IsDir() {
				target = a.notePath(target)
			}

			w, err := newNoteWatcher(target, a.log)
			if err != nil {
				return err
			}
			defer w.Close()

			initial, err := w.Initial()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go w.Run(ctx)

			return a.runTerminal(cmd, initial, hostOptions{reload: w.Notes()})
		},
	}
}

// noteWatcher reports parsed notes after their file settles
type noteWatcher struct {
	target string // file or directory
	single bool
	log    *zap.Logger

	fs    *fsnotify.Watcher
	notes chan *document.Note
}

func newNoteWatcher(target string, log *zap.Logger) (*noteWatcher, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	single := !info.IsDir()
	if single && !document.IsMarkdown(target) {
		return nil, fmt.Errorf("%s: %w", target, document.ErrNotMarkdown)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors replace files on save, so the parent directory is watched
	dir := target
	if single {
		dir = filepath.Dir(target)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &noteWatcher{
		target: filepath.Clean(target),
		single: single,
		log:    log,
		fs:     fw,
		notes:  make(chan *document.Note, 1),
	}, nil
}

// Initial returns the note shown before the first change.
// For a directory it is the most recently modified note
func (w *noteWatcher) Initial() (*document.Note, error) {
	if w.single {
		return document.Load(w.target)
	}

	entries, err := os.ReadDir(w.target)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.target, err)
	}
	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !document.IsMarkdown(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest, newestMod = filepath.Join(w.target, e.Name()), info.ModTime()
		}
	}
	if newest == "" {
		return nil, fmt.Errorf("no notes in %s", w.target)
	}
	return document.Load(newest)
}

// Notes delivers reloaded notes; only the latest pending note is kept
func (w *noteWatcher) Notes() <-chan *document.Note {
	return w.notes
}

func (w *noteWatcher) Close() error {
	return w.fs.Close()
}

func (w *noteWatcher) matches(path string) bool {
	if !document.IsMarkdown(path) {
		return false
	}
	if w.single {
		return filepath.Clean(path) == w.target
	}
	return true
}

// Run forwards settled changes until ctx ends or the watcher closes
func (w *noteWatcher) Run(ctx context.Context) {
	var (
		pending string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.matches(event.Name) {
				continue
			}
			w.log.Debug("Note changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			note, err := document.Load(pending)
			if err != nil {
				w.log.Warn("Reload failed", zap.String("path", pending), zap.Error(err))
				continue
			}
			w.deliver(note)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Debug("Watcher error", zap.Error(err))
		}
	}
}

// deliver replaces an unconsumed note with the newer one
func (w *noteWatcher) deliver(note *document.Note) {
	select {
	case w.notes <- note:
		return
	default:
	}
	select {
	case <-w.notes:
	default:
	}
	select {
	case w.notes <- note:
	default:
	}
}
