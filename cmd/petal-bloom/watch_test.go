package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/document"
)

func TestNoteWatcher_ReloadsSavedNote(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garden.md")
	require.NoError(t, os.WriteFile(path, []byte("# Before\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("# Other\n"), 0o644))

	w, err := newNoteWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	initial, err := w.Initial()
	require.NoError(t, err)
	require.Equal(t, "Before", initial.Title)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Sibling notes are ignored in single-note mode
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("# Changed\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("# After\n"), 0o644))

	select {
	case note := <-w.Notes():
		require.Equal(t, "After", note.Title)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestNoteWatcher_DirectoryPicksNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.md")
	newer := filepath.Join(dir, "newer.md")
	require.NoError(t, os.WriteFile(older, []byte("# Older\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("# Newer\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	w, err := newNoteWatcher(dir, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	initial, err := w.Initial()
	require.NoError(t, err)
	require.Equal(t, "Newer", initial.Title)

	require.True(t, w.matches(older))
	require.False(t, w.matches(filepath.Join(dir, "image.png")))
}

func TestNoteWatcher_Errors(t *testing.T) {
	_, err := newNoteWatcher(filepath.Join(t.TempDir(), "missing.md"), zap.NewNop())
	require.Error(t, err)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = newNoteWatcher(txt, zap.NewNop())
	require.ErrorIs(t, err, document.ErrNotMarkdown)

	w, err := newNoteWatcher(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer w.Close()
	_, err = w.Initial()
	require.ErrorContains(t, err, "no notes")
}

func TestNoteWatcher_DeliverKeepsLatest(t *testing.T) {
	w := &noteWatcher{notes: make(chan *document.Note, 1)}
	w.deliver(&document.Note{Title: "one"})
	w.deliver(&document.Note{Title: "two"})

	note := <-w.Notes()
	require.Equal(t, "two", note.Title)
	select {
	case extra := <-w.Notes():
		t.Fatalf("unexpected extra note %q", extra.Title)
	default:
	}
}
