package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// Frontmatter is only detected when the first line is '---'; an unclosed block reports endLine -1
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, -1, true
}

// splitFrontmatter returns the decoded frontmatter (never nil) and the body.
// An unclosed block is treated as body text
func splitFrontmatter(content string) (map[string]any, string, error) {
	fm := map[string]any{}
	lines := strings.Split(content, "\n")

	_, end, ok := FrontmatterBounds(lines)
	if !ok || end == -1 {
		return fm, content, nil
	}

	raw := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, strings.Join(lines[end+1:], "\n"), nil
}

// decodeOverrides re-encodes the override block so loosely typed YAML maps decode into Overrides
func decodeOverrides(fm map[string]any, out *Overrides) error {
	v, ok := fm[OverrideKey]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		out.Preset = s
		return nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", OverrideKey, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", OverrideKey, err)
	}
	return nil
}

func stringField(fm map[string]any, key string) string {
	if s, ok := fm[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
