// Package blocks implements the content block model (text, list and table
// blocks) and the block container that attaches blocks to a field.
//
// A block is stored in the document as {"type": kind, "data": {...}}. A field
// that carries blocks is an object with a "blocks" array; any other keys on
// that object are left alone.
package blocks

import (
	"fmt"

	"github.com/mcncl/blocktree/internal/cells"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// Kind is the tag of a content block.
type Kind string

const (
	KindText  Kind = "text"
	KindList  Kind = "list"
	KindTable Kind = "table"
)

// Kinds lists the block kinds in the order the add-block controls offer them.
var Kinds = []Kind{KindText, KindList, KindTable}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindText, KindList, KindTable:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownBlockKind, s)
	}
}

// Block is the decoded form of a content block, used for display and for
// building fresh blocks.
type Block struct {
	Kind    Kind
	Text    string
	Items   []string
	Columns []string
	Rows    [][]string
}

// New returns a block of kind with its defaults: an empty text, a list with
// one empty item, or a table of two headed columns and one empty row.
func New(kind Kind) Block {
	switch kind {
	case KindList:
		return Block{Kind: KindList, Items: []string{""}}
	case KindTable:
		return Block{
			Kind:    KindTable,
			Columns: []string{HeaderLabel(0), HeaderLabel(1)},
			Rows:    [][]string{{"", ""}},
		}
	default:
		return Block{Kind: KindText}
	}
}

// HeaderLabel is the default header of column i.
func HeaderLabel(i int) string {
	return fmt.Sprintf("Header %d", i+1)
}

// Value encodes the block in its document form.
func (b Block) Value() models.JSONValue {
	var data models.JSONValue
	switch b.Kind {
	case KindList:
		data = models.Object(models.Field{Key: "items", Value: stringArray(b.Items)})
	case KindTable:
		rows := make([]models.JSONValue, 0, len(b.Rows))
		for _, r := range b.Rows {
			rows = append(rows, stringArray(r))
		}
		data = models.Object(
			models.Field{Key: "columns", Value: stringArray(b.Columns)},
			models.Field{Key: "rows", Value: models.Array(rows...)},
		)
	default:
		data = models.Object(models.Field{Key: "text", Value: models.String(b.Text)})
	}
	return models.Object(
		models.Field{Key: "type", Value: models.String(string(b.Kind))},
		models.Field{Key: "data", Value: data},
	)
}

// Decode reads a block for display. Missing data members read as empty;
// table rows are padded or cut to the table's width.
func Decode(v models.JSONValue) (Block, error) {
	if !IsBlock(v) {
		return Block{}, fmt.Errorf("%w: not a content block: %s", errors.ErrWrongKind, v.Kind())
	}
	kind := KindOf(v)
	data, _ := v.Get("data")
	b := Block{Kind: kind}
	switch kind {
	case KindText:
		text, _ := data.Get("text")
		if !text.IsNull() {
			b.Text = text.Text()
		}
	case KindList:
		items, _ := data.Get("items")
		b.Items = cells.Lines(items)
	case KindTable:
		cols, _ := data.Get("columns")
		b.Columns = cells.Lines(cols)
		rows, _ := data.Get("rows")
		b.Rows = cells.RowsOf(rows, TableWidth(v))
	}
	return b, nil
}

// IsBlock reports whether v is {"type": <known kind>, ...} with an object or
// missing data member.
func IsBlock(v models.JSONValue) bool {
	if !v.IsObject() {
		return false
	}
	t, ok := v.Get("type")
	if !ok || t.Kind() != models.KindString {
		return false
	}
	if _, err := ParseKind(t.StringValue()); err != nil {
		return false
	}
	data, ok := v.Get("data")
	return !ok || data.IsObject()
}

// KindOf returns the kind tag of a block, or "" for anything else.
func KindOf(v models.JSONValue) Kind {
	if !IsBlock(v) {
		return ""
	}
	t, _ := v.Get("type")
	return Kind(t.StringValue())
}

// IsTagged reports whether v is an object with a truthy "type" member. Such
// objects are never treated as plain table rows.
func IsTagged(v models.JSONValue) bool {
	if !v.IsObject() {
		return false
	}
	t, ok := v.Get("type")
	return ok && t.Truthy()
}

func stringArray(ss []string) models.JSONValue {
	items := make([]models.JSONValue, 0, len(ss))
	for _, s := range ss {
		items = append(items, models.String(s))
	}
	return models.Array(items...)
}
