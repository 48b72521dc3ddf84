// Package document loads a vault note into ordered styled text runs, the
// reading-order source every layout host consumes.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/petal-bloom/glyph"
)

// ErrNotMarkdown is returned for paths without a Markdown extension
var ErrNotMarkdown = errors.New("not a markdown note")

// OverrideKey is the frontmatter key holding per-note animation overrides
const OverrideKey = "petal-bloom"

// Overrides are per-note preset selections from frontmatter
type Overrides struct {
	Preset string `yaml:"preset"`
	Shape  string `yaml:"shape"`
	Return string `yaml:"return"`
}

// Note is a parsed vault note
type Note struct {
	Path        string
	Title       string
	Frontmatter map[string]any
	Overrides   Overrides
	Runs        []glyph.Text
}

// IsMarkdown reports whether path names a Markdown note
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Load reads and parses the note at path
func Load(path string) (*Note, error) {
	if !IsMarkdown(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotMarkdown)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}
	return Parse(path, string(content))
}

// Parse splits content into frontmatter and body and renders the body to text runs
func Parse(path, content string) (*Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	fm, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	note := &Note{Path: path, Frontmatter: fm}
	if err := decodeOverrides(fm, &note.Overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var heading string
	note.Runs, heading = renderRuns([]byte(body))

	switch {
	case stringField(fm, "title") != "":
		note.Title = stringField(fm, "title")
	case heading != "":
		note.Title = heading
	default:
		note.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return note, nil
}

// Text returns the concatenated run text
func (n *Note) Text() string {
	var b strings.Builder
	for _, r := range n.Runs {
		b.WriteString(r.Value)
	}
	return b.String()
}
