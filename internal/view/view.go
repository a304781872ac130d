// Package view describes the UI produced for a document: a tree of widget
// nodes, each carrying the controls that edit it. It has no drawing code; the
// render and tui packages consume it.
package view

import (
	"github.com/mcncl/blocktree/internal/models"
)

// Widget is the kind of UI element a node draws as.
type Widget int

const (
	Record   Widget = iota // object: a list of sections
	Section                // one named, collapsible object member
	Stack                  // heterogeneous array: one Item per element
	Item                   // one element of a Stack
	Input                  // editable scalar
	ReadOnly               // plain, non-editable value
	Lines                  // list of scalar lines
	Grid                   // matrix or table block
	Row                    // one row of a Grid or Table
	Table                  // auto data table over an array of records
	Blocks                 // block container
	Block                  // one content block
	Gallery                // image list
	Image                  // one gallery item
)

var widgetNames = [...]string{
	Record:   "record",
	Section:  "section",
	Stack:    "stack",
	Item:     "item",
	Input:    "input",
	ReadOnly: "readonly",
	Lines:    "lines",
	Grid:     "grid",
	Row:      "row",
	Table:    "table",
	Blocks:   "blocks",
	Block:    "block",
	Gallery:  "gallery",
	Image:    "image",
}

func (w Widget) String() string {
	if int(w) >= 0 && int(w) < len(widgetNames) {
		return widgetNames[w]
	}
	return "unknown"
}

// Node is one element of the view tree.
type Node struct {
	Widget Widget
	// Path addresses the document value this node edits.
	Path models.Pointer
	// Key is the object member name for sections and table cells.
	Key   string
	Label string
	// Text is the display value of Input, ReadOnly and Image nodes.
	Text string
	// Primary marks top-level sections.
	Primary bool
	// Columns holds header labels of Grid and Table nodes.
	Columns  []string
	Children []*Node
	Controls []Control
}

// ID identifies a node within one render. It is stable across renders as
// long as the node's path and widget do not change, so UI state such as
// collapsed sections can be keyed by it.
func (n *Node) ID() string {
	return n.Widget.String() + ":" + n.Path.String() + ":" + n.Key
}

// Control finds a control by name.
func (n *Node) Control(name string) (Control, bool) {
	for _, c := range n.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

// Find returns the first node, in depth-first order, that satisfies match.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindPath returns the first node of widget w editing path.
func (n *Node) FindPath(w Widget, path string) *Node {
	return n.Find(func(c *Node) bool {
		return c.Widget == w && c.Path.String() == path
	})
}

// Arg says what a control expects from the user.
type Arg int

const (
	NoArg   Arg = iota // runs immediately
	TextArg            // needs a line of text
)

// Control is one edit the user can make. Run computes the next document and
// hands it to the change callback that built the tree.
type Control struct {
	Name  string
	Label string
	Arg   Arg
	// Initial pre-fills the text prompt for TextArg controls.
	Initial string
	Run     func(arg string) error
}
