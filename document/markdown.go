package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/parameter/visual"
)

// wikilinkRe matches [[target]] and [[target|display]]
var wikilinkRe = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// resolveWikilinks replaces wikilinks with their display text
func resolveWikilinks(body string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := wikilinkRe.FindStringSubmatch(m)
		if strings.TrimSpace(sub[2]) != "" {
			return strings.TrimSpace(sub[2])
		}
		target := strings.TrimSpace(sub[1])
		if i := strings.IndexByte(target, '#'); i > 0 {
			target = target[:i]
		}
		return target
	})
}

// BaseStyle is the body text style
func BaseStyle() glyph.Style {
	return glyph.Style{
		Color:      visual.RgbForeground,
		FontFamily: glyph.FamilySans,
		FontSizePx: parameter.DefaultFontSizePx,
		FontWeight: glyph.WeightNormal,
		FontStyle:  glyph.StyleNormal,
	}
}

// runBuilder accumulates text, merging adjacent runs of equal style
type runBuilder struct {
	runs   []glyph.Text
	styles []glyph.Style
}

func (b *runBuilder) style() glyph.Style {
	return b.styles[len(b.styles)-1]
}

func (b *runBuilder) push(s glyph.Style) { b.styles = append(b.styles, s) }

func (b *runBuilder) pop() {
	if len(b.styles) > 1 {
		b.styles = b.styles[:len(b.styles)-1]
	}
}

func (b *runBuilder) emit(s string) {
	b.emitStyled(s, b.style())
}

func (b *runBuilder) emitStyled(s string, st glyph.Style) {
	if s == "" {
		return
	}
	if n := len(b.runs); n > 0 && b.runs[n-1].Style == st {
		b.runs[n-1].Value += s
		return
	}
	b.runs = append(b.runs, glyph.Text{Value: s, Style: st})
}

// breakBlock ends a block with a blank line, collapsing repeated separators
func (b *runBuilder) breakBlock(sep string) {
	n := len(b.runs)
	if n == 0 {
		return
	}
	last := &b.runs[n-1]
	trimmed := strings.TrimRight(last.Value, "\n")
	if trimmed == "" && n == 1 {
		b.runs = b.runs[:0]
		return
	}
	last.Value = trimmed + sep
}

func (b *runBuilder) finish() []glyph.Text {
	if n := len(b.runs); n > 0 {
		b.runs[n-1].Value = strings.TrimRight(b.runs[n-1].Value, "\n")
		if b.runs[n-1].Value == "" {
			b.runs = b.runs[:n-1]
		}
	}
	return b.runs
}

// renderRuns walks the Markdown AST in document order and returns styled runs
// plus the plain text of the first heading
func renderRuns(body []byte) ([]glyph.Text, string) {
	src := []byte(norm.NFC.String(resolveWikilinks(string(body))))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	b := &runBuilder{styles: []glyph.Style{BaseStyle()}}
	var firstHeading string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				b.push(headingStyle(b.style(), node.Level))
				if firstHeading == "" {
					firstHeading = strings.TrimSpace(plainText(node, src))
				}
			} else {
				b.pop()
				b.breakBlock("\n\n")
			}

		case *ast.Paragraph:
			if !entering {
				b.breakBlock("\n\n")
			}

		case *ast.TextBlock:
			if !entering {
				b.breakBlock("\n")
			}

		case *ast.List:
			if !entering {
				b.breakBlock("\n\n")
			}

		case *ast.ListItem:
			if entering {
				bullet := b.style()
				bullet.Color = visual.RgbBullet
				b.emitStyled(listMarker(node), bullet)
			}

		case *ast.Blockquote:
			if entering {
				st := b.style()
				st.Color = visual.RgbMuted
				st.FontStyle = glyph.StyleItalic
				b.push(st)
			} else {
				b.pop()
			}

		case *ast.ThematicBreak:
			if entering {
				st := b.style()
				st.Color = visual.RgbMuted
				b.emitStyled("───", st)
				b.breakBlock("\n\n")
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				st := codeStyle(b.style())
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.emitStyled(string(seg.Value(src)), st)
				}
				b.breakBlock("\n\n")
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil

		case *ast.Emphasis:
			if entering {
				st := b.style()
				if node.Level >= 2 {
					st.FontWeight = glyph.WeightBold
				} else {
					st.FontStyle = glyph.StyleItalic
					st.Color = visual.RgbEmphasis
				}
				b.push(st)
			} else {
				b.pop()
			}

		case *ast.CodeSpan:
			if entering {
				b.push(codeStyle(b.style()))
			} else {
				b.pop()
			}

		case *ast.Link, *ast.Image:
			if entering {
				st := b.style()
				st.Color = visual.RgbLink
				b.push(st)
			} else {
				b.pop()
			}

		case *ast.AutoLink:
			if entering {
				st := b.style()
				st.Color = visual.RgbLink
				b.emitStyled(string(node.Label(src)), st)
			}

		case *ast.Text:
			if entering {
				b.emit(string(node.Segment.Value(src)))
				switch {
				case node.HardLineBreak():
					b.emit("\n")
				case node.SoftLineBreak():
					b.emit(" ")
				}
			}

		case *ast.String:
			if entering {
				b.emit(string(node.Value))
			}
		}
		return ast.WalkContinue, nil
	})

	return b.finish(), firstHeading
}

func headingStyle(base glyph.Style, level int) glyph.Style {
	level = min(max(level, 1), len(parameter.HeadingScale)-1)
	st := base
	st.FontSizePx = parameter.DefaultFontSizePx * parameter.HeadingScale[level]
	st.FontWeight = glyph.WeightBold
	st.Color = visual.RgbHeading
	return st
}

func codeStyle(base glyph.Style) glyph.Style {
	st := base
	st.FontFamily = glyph.FamilyMono
	st.Color = visual.RgbCode
	return st
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "• "
	}
	n := list.Start
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		n++
	}
	return strconv.Itoa(n) + ". "
}

// plainText concatenates the text descendants of n
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
