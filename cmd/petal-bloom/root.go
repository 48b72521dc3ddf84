package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/config"
	"github.com/lixenwraith/petal-bloom/document"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

// app carries flags and resolved state shared by every command
type app struct {
	// Global flags
	configPath string
	debug      bool
	preset     string
	shape      string
	returnMode string
	vault      string
	seed       uint64
	chime      bool

	// Resolved values
	resolvedConfigPath string
	settings           config.Settings
	log                *zap.Logger
	logFile            *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "petal-bloom",
		Short: "Bloom Markdown notes into petals",
		Long: `petal-bloom splits the visible text of a note into half-glyph petals,
scatters them in 3D and brings them back home or onto a heart, a swirl or
the center of the view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/petal-bloom/config.toml)")
	pf.BoolVar(&a.debug, "debug", false, "write a debug log to logs/petal-bloom.log")
	pf.StringVar(&a.preset, "preset", "", "preset: sakura, neon, gold or shape")
	pf.StringVar(&a.shape, "shape", "", "shape pattern for the shape preset: heart or swirl")
	pf.StringVar(&a.returnMode, "return", "", "override return mode: original, center or shape")
	pf.StringVar(&a.vault, "vault", "", "vault directory used to resolve relative note paths")
	pf.Uint64Var(&a.seed, "seed", 0, "random seed, 0 for a time based seed")
	pf.BoolVar(&a.chime, "chime", false, "play a chime when a bloom starts")

	root.AddCommand(
		newRunCmd(a),
		newRenderCmd(a),
		newWatchCmd(a),
		newPresetsCmd(a),
		newConfigCmd(a),
	)
	return root
}

// prepare loads settings, applies explicitly set flags over them and starts logging
func (a *app) prepare(cmd *cobra.Command) error {
	a.resolvedConfigPath = a.configPath
	if a.resolvedConfigPath == "" {
		a.resolvedConfigPath = config.DefaultPath()
	}

	s, err := config.Load(a.resolvedConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		s.Preset = a.preset
	}
	if flags.Changed("shape") {
		s.Shape = a.shape
	}
	if flags.Changed("return") {
		if _, ok := preset.ParseReturnMode(a.returnMode); !ok {
			return fmt.Errorf("unknown return mode %q", a.returnMode)
		}
		s.Return = a.returnMode
	}
	if flags.Changed("vault") {
		s.Vault = a.vault
	}
	if flags.Changed("seed") {
		s.Seed = a.seed
	}
	if flags.Changed("chime") {
		s.Chime = a.chime
	}
	a.settings = s

	a.log, a.logFile = setupLogging(a.debug)
	a.log.Debug("Settings resolved",
		zap.String("config", a.resolvedConfigPath),
		zap.String("preset", s.Preset),
		zap.String("shape", s.Shape),
		zap.Uint64("seed", s.Seed))
	return nil
}

func (a *app) close() {
	_ = a.log.Sync()
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// resolveParams picks the preset for a note; frontmatter overrides settings and flags
func resolveParams(s config.Settings, ov document.Overrides) preset.Parameters {
	name, shape, ret := s.Preset, s.Shape, s.Return
	if ov.Preset != "" {
		name = ov.Preset
	}
	if ov.Shape != "" {
		shape = ov.Shape
	}
	if ov.Return != "" {
		ret = ov.Return
	}

	pattern := preset.ParseShape(shape)
	p := preset.Resolve(name, pattern)
	if mode, ok := preset.ParseReturnMode(ret); ok {
		p = p.WithReturnMode(mode)
		if mode == preset.ReturnConvergeShape {
			p = p.WithShapePattern(pattern)
		}
	}
	return p
}

// rng returns the random source for one bloom
func (a *app) rng() *rand.Rand {
	seed := a.settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return trajectory.NewSource(seed)
}

// notePath resolves arg against the vault when it is not found as given.
// A missing extension defaults to .md
func (a *app) notePath(arg string) string {
	return resolveNotePath(arg, a.settings.Vault)
}

func resolveNotePath(arg, vault string) string {
	p := arg
	if filepath.Ext(p) == "" {
		p += ".md"
	}
	if filepath.IsAbs(p) || vault == "" {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(vault, strings.TrimPrefix(p, "./"))
}

func (a *app) loadNote(arg string) (*document.Note, error) {
	note, err := document.Load(a.notePath(arg))
	if err != nil {
		return nil, err
	}
	a.log.Debug("Note loaded",
		zap.String("path", note.Path),
		zap.String("title", note.Title),
		zap.Int("runs", len(note.Runs)))
	return note, nil
}
