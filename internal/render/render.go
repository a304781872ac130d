// Package render draws a view tree as terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/view"
)

// Styles holds the lipgloss styles used for each part of the tree.
type Styles struct {
	Primary lipgloss.Style
	Section lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
	Kind    lipgloss.Style
	Image   lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles are the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Primary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Section: lipgloss.NewStyle().Bold(true),
		Value:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Kind:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Image:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// PlainStyles apply no formatting.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Primary: s, Section: s, Value: s, Dim: s, Header: s, Kind: s, Image: s, Border: s}
}

// Renderer turns view nodes into text.
type Renderer struct {
	cfg    config.RenderConfig
	styles Styles
}

// New creates a Renderer. Color off selects PlainStyles.
func New(cfg config.RenderConfig) *Renderer {
	styles := DefaultStyles()
	if !cfg.Color {
		styles = PlainStyles()
	}
	if cfg.Indent <= 0 {
		cfg.Indent = 2
	}
	return &Renderer{cfg: cfg, styles: styles}
}

// Styles returns the styles in use.
func (r *Renderer) Styles() Styles { return r.styles }

// Render draws the whole tree.
func (r *Renderer) Render(root *view.Node) string {
	var b strings.Builder
	r.node(&b, root, 0)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r *Renderer) indent(depth int) string {
	return strings.Repeat(" ", r.cfg.Indent*depth)
}

func (r *Renderer) line(b *strings.Builder, depth int, text string) {
	b.WriteString(r.indent(depth))
	b.WriteString(text)
	b.WriteByte('\n')
}

func (r *Renderer) block(b *strings.Builder, depth int, text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		r.line(b, depth, l)
	}
}

func (r *Renderer) node(b *strings.Builder, n *view.Node, depth int) {
	switch n.Widget {
	case view.Record:
		if len(n.Children) == 0 {
			r.line(b, depth, r.styles.Dim.Render("{}"))
		}
		for _, c := range n.Children {
			r.node(b, c, depth)
		}
	case view.Section:
		r.line(b, depth, r.Label(n))
		for _, c := range n.Children {
			r.node(b, c, depth+1)
		}
	case view.Stack:
		if len(n.Children) == 0 {
			r.line(b, depth, r.styles.Dim.Render("(empty)"))
		}
		for _, c := range n.Children {
			r.line(b, depth, r.styles.Dim.Render(c.Label))
			for _, cc := range c.Children {
				r.node(b, cc, depth+1)
			}
		}
	case view.Lines:
		if len(n.Children) == 0 {
			r.line(b, depth, r.styles.Dim.Render("(no lines)"))
		}
		for _, c := range n.Children {
			r.line(b, depth, "• "+r.Value(c.Text))
		}
	case view.Grid, view.Table:
		r.block(b, depth, r.Grid(n))
	case view.Blocks:
		if len(n.Children) == 0 {
			r.line(b, depth, r.styles.Dim.Render("(no blocks)"))
		}
		for _, c := range n.Children {
			r.node(b, c, depth)
		}
	case view.Block:
		r.line(b, depth, r.styles.Kind.Render("["+n.Label+"]"))
		for _, c := range n.Children {
			r.node(b, c, depth+1)
		}
	case view.Gallery:
		if len(n.Children) == 0 {
			r.line(b, depth, r.styles.Dim.Render("(no images)"))
		}
		for _, c := range n.Children {
			r.line(b, depth, r.styles.Image.Render(c.Text))
		}
	case view.ReadOnly:
		r.line(b, depth, r.styles.Dim.Render(shown(n.Text)))
	default:
		r.line(b, depth, r.Value(n.Text))
	}
}

// Label is the heading of a section.
func (r *Renderer) Label(n *view.Node) string {
	if n.Primary {
		return r.styles.Primary.Render(n.Label)
	}
	return r.styles.Section.Render(n.Label)
}

// Value styles scalar text; the empty string shows as "".
func (r *Renderer) Value(text string) string {
	if text == "" {
		return r.styles.Dim.Render(`""`)
	}
	return r.styles.Value.Render(text)
}

// Grid draws a Grid or Table node with lipgloss/table. Header rows of table
// blocks become the table headers.
func (r *Renderer) Grid(n *view.Node) string {
	var headers []string
	var rows [][]string
	for _, row := range n.Children {
		texts := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			texts = append(texts, r.truncate(Summary(cell)))
		}
		if row.Key == "header" {
			headers = texts
			continue
		}
		rows = append(rows, texts)
	}
	if headers == nil {
		for _, h := range n.Columns {
			headers = append(headers, r.truncate(h))
		}
	}
	if len(rows) == 0 && len(headers) == 0 {
		return r.styles.Dim.Render("(empty table)")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.Header.Padding(0, 1)
			}
			return r.styles.Value.Padding(0, 1)
		}).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t.String()
}

func (r *Renderer) truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r.cfg.MaxCellWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, r.cfg.MaxCellWidth, "…")
}

// Summary is the one-line text of a node shown inside table cells.
func Summary(n *view.Node) string {
	switch n.Widget {
	case view.Input, view.ReadOnly, view.Image:
		return n.Text
	case view.Blocks:
		blocks := 0
		for _, c := range n.Children {
			if c.Widget == view.Block {
				blocks++
			}
		}
		if blocks == 1 {
			return "1 block"
		}
		return fmt.Sprintf("%d blocks", blocks)
	case view.Lines:
		texts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			texts = append(texts, c.Text)
		}
		return strings.Join(texts, ", ")
	case view.Gallery:
		return fmt.Sprintf("%d images", len(n.Children))
	case view.Record:
		return fmt.Sprintf("%d fields", len(n.Children))
	default:
		return fmt.Sprintf("%d items", len(n.Children))
	}
}

func shown(text string) string {
	if text == "" {
		return `""`
	}
	return text
}
