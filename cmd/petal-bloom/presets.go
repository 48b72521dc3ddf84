package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BB9AF7"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(a.settings.Preset, preset.ParseShape(a.settings.Shape)))
			return nil
		},
	}
}

// presetTable renders one row per preset, marking the selected one
func presetTable(selected string, shape preset.ShapePattern) string {
	rows := make([][]string, 0, len(preset.Names()))
	for _, name := range preset.Names() {
		p := preset.Resolve(string(name), shape)
		mark := " "
		if strings.EqualFold(string(name), selected) {
			mark = "*"
		}
		ret := string(p.ReturnMode)
		if p.ReturnMode == preset.ReturnConvergeShape {
			ret += " (" + string(p.ShapePattern) + ")"
		}
		rows = append(rows, []string{
			mark,
			string(name),
			p.Label,
			p.Duration.String(),
			(p.Duration + trajectory.MaxDelay(p)).String(),
			strconv.Itoa(p.GlyphCap),
			ret,
		})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "NAME", "LABEL", "DURATION", "LONGEST", "GLYPHS", "RETURN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(1)
			switch {
			case row == table.HeaderRow:
				return s.Inherit(boldStyle)
			case col == 1:
				return s.Inherit(accentStyle)
			case col >= 3:
				return s.Inherit(mutedStyle)
			}
			return s
		})
	return t.Render()
}
