// Package tui is the interactive terminal editor built on bubbletea. It
// re-renders the view tree after every edit and keeps only UI state of its
// own: the cursor, collapsed sections and the open prompt.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcncl/blocktree/internal/editor"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/render"
	"github.com/mcncl/blocktree/internal/view"
)

// SaveFunc persists the document.
type SaveFunc func(models.JSONValue) error

type mode int

const (
	modeBrowse mode = iota
	modePrompt
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// changes receives documents from control callbacks. It is shared by every
// copy of the model.
type changes struct {
	next    models.JSONValue
	pending bool
}

// Model is the bubbletea model of the editor.
type Model struct {
	editor   *editor.Editor
	renderer *render.Renderer
	save     SaveFunc
	title    string

	doc       models.JSONValue
	root      *view.Node
	lines     []view.Line
	collapsed map[string]bool
	sink      *changes

	cursor int
	offset int
	width  int
	height int

	mode    mode
	control view.Control
	input   textinput.Model

	dirty  bool
	status string
	err    error
}

// New creates a model editing doc. save may be nil when there is nowhere to
// write to.
func New(ed *editor.Editor, r *render.Renderer, doc models.JSONValue, title string, save SaveFunc) Model {
	ti := textinput.New()
	ti.Prompt = "> "

	m := Model{
		editor:    ed,
		renderer:  r,
		save:      save,
		title:     title,
		collapsed: make(map[string]bool),
		sink:      &changes{},
		input:     ti,
	}
	m.setDoc(doc)
	return m
}

// CollapseNested closes every section below the top level.
func (m Model) CollapseNested() Model {
	m.root.Find(func(n *view.Node) bool {
		if n.Widget == view.Section && !n.Primary {
			m.collapsed[n.ID()] = true
		}
		return false
	})
	m.relayout()
	return m
}

// Doc returns the current document.
func (m Model) Doc() models.JSONValue { return m.doc }

// Dirty reports whether there are unsaved edits.
func (m Model) Dirty() bool { return m.dirty }

func (m *Model) setDoc(doc models.JSONValue) {
	sink := m.sink
	m.doc = doc
	m.root = m.editor.Render(doc, func(next models.JSONValue) {
		sink.next = next
		sink.pending = true
	})
	m.relayout()
}

func (m *Model) relayout() {
	m.lines = view.Flatten(m.root, func(n *view.Node) bool { return m.collapsed[n.ID()] })
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

func (m *Model) scroll() {
	rows := m.treeRows()
	if rows <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// treeRows is the number of tree lines that fit between header and footer.
func (m Model) treeRows() int {
	if m.height == 0 {
		return 0
	}
	return m.height - 5
}

func (m Model) current() *view.Node {
	if len(m.lines) == 0 {
		return nil
	}
	return m.lines[m.cursor].Node
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		if m.mode == modePrompt {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.lines) - 1
	case "enter", " ":
		n := m.current()
		if n == nil {
			break
		}
		if n.Widget == view.Section {
			m.collapsed[n.ID()] = !m.collapsed[n.ID()]
			m.relayout()
			break
		}
		if c, ok := n.Control("edit"); ok {
			return m.begin(c)
		}
	case "s":
		m.doSave()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := m.current()
			i := int(key[0] - '1')
			if n != nil && i < len(n.Controls) {
				return m.begin(n.Controls[i])
			}
		}
	}
	m.scroll()
	return m, nil
}

// begin runs c, first opening a prompt when it needs text.
func (m Model) begin(c view.Control) (tea.Model, tea.Cmd) {
	if c.Arg == view.TextArg {
		m.mode = modePrompt
		m.control = c
		m.input.SetValue(c.Initial)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	m.run(c, "")
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		m.run(m.control, m.input.Value())
		return m, nil
	case "esc", "ctrl+c":
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) run(c view.Control, arg string) {
	*m.sink = changes{}
	if err := c.Run(arg); err != nil {
		m.err = err
		return
	}
	if !m.sink.pending {
		return
	}
	next := m.sink.next
	*m.sink = changes{}
	m.dirty = true
	m.status = c.Label
	m.setDoc(next)
}

func (m *Model) doSave() {
	if m.save == nil {
		m.err = fmt.Errorf("no output file; start with -o to save")
		return
	}
	if err := m.save(m.doc); err != nil {
		m.err = err
		return
	}
	m.dirty = false
	m.status = "saved"
}

func (m Model) View() string {
	var b strings.Builder
	title := m.title
	if m.dirty {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	start, end := 0, len(m.lines)
	if rows := m.treeRows(); rows > 0 && end-start > rows {
		start = m.offset
		end = min(start+rows, len(m.lines))
	}
	for i := start; i < end; i++ {
		l := m.lines[i]
		text := strings.Repeat("  ", l.Depth) + m.describe(l)
		if i == m.cursor {
			text = cursorStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	switch {
	case m.mode == modePrompt:
		b.WriteString(m.control.Label + "\n")
		b.WriteString(m.input.View())
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	parts := []string{"↑/↓ move", "enter open/edit", "s save", "q quit"}
	if n := m.current(); n != nil {
		for i, c := range n.Controls {
			if i == 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d %s", i+1, c.Label))
		}
	}
	return strings.Join(parts, " · ")
}

// describe is the one-line text of a tree line.
func (m Model) describe(l view.Line) string {
	n := l.Node
	st := m.renderer.Styles()
	switch n.Widget {
	case view.Section:
		marker := "▾ "
		if l.Collapsed {
			marker = "▸ "
		}
		return marker + m.renderer.Label(n)
	case view.Record:
		return st.Dim.Render(fmt.Sprintf("{%d fields}", len(n.Children)))
	case view.Input:
		return m.renderer.Value(n.Text)
	case view.ReadOnly:
		return st.Dim.Render(n.Text)
	case view.Item, view.Block:
		return st.Kind.Render(n.Label)
	case view.Image:
		return st.Image.Render(n.Text)
	case view.Row:
		if n.Key == "header" {
			return st.Header.Render("header")
		}
		cells := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			cells = append(cells, render.Summary(c))
		}
		return strings.Join(cells, " │ ")
	case view.Grid, view.Table:
		label := n.Widget.String()
		if len(n.Columns) > 0 {
			label += ": " + strings.Join(n.Columns, ", ")
		}
		return st.Dim.Render(label)
	default:
		return st.Dim.Render(n.Widget.String() + " (" + render.Summary(n) + ")")
	}
}
