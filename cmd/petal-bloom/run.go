package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/petal-bloom/chime"
	"github.com/lixenwraith/petal-bloom/document"
)

var errNoTerminal = errors.New("an interactive terminal is required, use render to write a GIF")

func newRunCmd(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run <note>",
		Short: "Show a note in the terminal and bloom it",
		Long: `Lays the note out in the terminal. Space or Enter blooms the visible text,
j/k or the arrow keys scroll, q or Esc quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.loadNote(args[0])
			if err != nil {
				return err
			}
			return a.runTerminal(cmd, note, hostOptions{once: once})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "bloom immediately and exit after teardown")
	return cmd
}

// runTerminal owns the screen for the duration of one host loop
func (a *app) runTerminal(cmd *cobra.Command, note *document.Note, opts hostOptions) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	setActiveScreen(screen)
	defer restoreScreen()

	player := chime.New(a.settings.Chime, a.log)
	defer player.Close()

	host := newTerminalHost(screen, note, a.settings, a.log, a.rng(), player)
	return host.loop(cmd.Context(), opts)
}
