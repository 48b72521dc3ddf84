// Package config persists user settings: the default preset, shape pattern
// and host rendering options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/preset"
)

// ErrUnknownKey is returned by Get and Set for keys that are not settings
var ErrUnknownKey = errors.New("unknown setting")

// Settings is the persisted configuration
type Settings struct {
	Preset     string  `toml:"preset"`
	Shape      string  `toml:"shape"`
	Return     string  `toml:"return,omitempty"`
	FPS        int     `toml:"fps"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	FontSize   float64 `toml:"font_size"`
	Chime      bool    `toml:"chime"`
	Seed       uint64  `toml:"seed"`
	Vault      string  `toml:"vault,omitempty"`
}

// Default returns the settings used when no file exists
func Default() Settings {
	return Settings{
		Preset:     string(preset.Sakura),
		Shape:      string(preset.Heart),
		FPS:        int(1e9 / parameter.FrameUpdateInterval.Nanoseconds()),
		CellWidth:  layout.DefaultCellWidth,
		CellHeight: layout.DefaultCellHeight,
		FontSize:   parameter.DefaultFontSizePx,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/petal-bloom/config.toml or the OS equivalent
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "petal-bloom", "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "petal-bloom", "config.toml")
	}
	return filepath.Join(".", "petal-bloom.toml")
}

// Load reads settings from path, returning defaults when the file does not exist.
// Keys absent from the file keep their default values
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return s.normalized(), nil
}

// Save writes settings to path atomically
func Save(path string, s Settings) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.normalized()); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// normalized resolves names and replaces non-positive numbers with defaults
func (s Settings) normalized() Settings {
	d := Default()
	s.Preset = strings.ToLower(strings.TrimSpace(s.Preset))
	if !preset.Known(s.Preset) {
		s.Preset = d.Preset
	}
	s.Shape = string(preset.ParseShape(s.Shape))
	if mode, ok := preset.ParseReturnMode(s.Return); ok {
		s.Return = string(mode)
	} else {
		s.Return = ""
	}
	if s.FPS <= 0 {
		s.FPS = d.FPS
	}
	if s.CellWidth <= 0 {
		s.CellWidth = d.CellWidth
	}
	if s.CellHeight <= 0 {
		s.CellHeight = d.CellHeight
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	return s
}

// accessors maps setting keys to string getters and setters
var accessors = map[string]struct {
	get func(*Settings) string
	set func(*Settings, string) error
}{
	"preset": {
		get: func(s *Settings) string { return s.Preset },
		set: func(s *Settings, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if !preset.Known(v) {
				return fmt.Errorf("unknown preset %q", v)
			}
			s.Preset = v
			return nil
		},
	},
	"shape": {
		get: func(s *Settings) string { return s.Shape },
		set: func(s *Settings, v string) error {
			s.Shape = string(preset.ParseShape(v))
			return nil
		},
	},
	"return": {
		get: func(s *Settings) string { return s.Return },
		set: func(s *Settings, v string) error {
			mode, ok := preset.ParseReturnMode(v)
			if !ok {
				return fmt.Errorf("unknown return mode %q", v)
			}
			s.Return = string(mode)
			return nil
		},
	},
	"fps": {
		get: func(s *Settings) string { return strconv.Itoa(s.FPS) },
		set: func(s *Settings, v string) error { return parsePositiveInt(v, &s.FPS) },
	},
	"cell_width": {
		get: func(s *Settings) string { return formatFloat(s.CellWidth) },
		set: func(s *Settings, v string) error { return parsePositiveFloat(v, &s.CellWidth) },
	},
	"cell_height": {
		get: func(s *Settings) string { return formatFloat(s.CellHeight) },
		set: func(s *Settings, v string) error { return parsePositiveFloat(v, &s.CellHeight) },
	},
	"font_size": {
		get: func(s *Settings) string { return formatFloat(s.FontSize) },
		set: func(s *Settings, v string) error { return parsePositiveFloat(v, &s.FontSize) },
	},
	"chime": {
		get: func(s *Settings) string { return strconv.FormatBool(s.Chime) },
		set: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid bool %q", v)
			}
			s.Chime = b
			return nil
		},
	},
	"seed": {
		get: func(s *Settings) string { return strconv.FormatUint(s.Seed, 10) },
		set: func(s *Settings, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed %q", v)
			}
			s.Seed = n
			return nil
		},
	},
	"vault": {
		get: func(s *Settings) string { return s.Vault },
		set: func(s *Settings, v string) error {
			s.Vault = strings.TrimSpace(v)
			return nil
		},
	},
}

// Keys returns every settable key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of one setting
func (s *Settings) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return a.get(s), nil
}

// Set parses and assigns one setting
func (s *Settings) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := a.set(s, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func parsePositiveInt(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("want a positive integer, got %q", v)
	}
	*dst = n
	return nil
}

func parsePositiveFloat(v string, dst *float64) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("want a positive number, got %q", v)
	}
	*dst = f
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
