package editor

import (
	"fmt"

	"github.com/mcncl/blocktree/internal/blocks"
	"github.com/mcncl/blocktree/internal/cells"
	"github.com/mcncl/blocktree/internal/classifier"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/view"
)

// builder walks one document and wires every control to it.
type builder struct {
	e        *Editor
	doc      models.JSONValue
	onChange func(models.JSONValue)
}

func (b *builder) control(name, label string, arg view.Arg, initial string, op func(arg string) Op) view.Control {
	return view.Control{
		Name:    name,
		Label:   label,
		Arg:     arg,
		Initial: initial,
		Run: func(text string) error {
			next, err := b.e.Apply(b.doc, op(text))
			if err != nil {
				return err
			}
			if b.onChange != nil {
				b.onChange(next)
			}
			return nil
		},
	}
}

func (b *builder) fixed(name, label string, op Op) view.Control {
	return b.control(name, label, view.NoArg, "", func(string) Op { return op })
}

func (b *builder) value(v models.JSONValue, ptr models.Pointer, key string, s classifier.Strategy, depth int) *view.Node {
	switch s {
	case classifier.Record:
		return b.record(v, ptr, depth)
	case classifier.BlockContainer:
		return b.blockField(v, ptr, key, depth, b.e.policy.ShowBlockControls(key))
	case classifier.Matrix:
		return b.matrix(v, ptr)
	case classifier.HomogeneousRecordArray:
		return b.table(v, ptr, depth)
	case classifier.HeterogeneousArray:
		if allScalars(v) {
			return b.lines(v, ptr, ptr)
		}
		return b.stack(v, ptr, depth)
	case classifier.Gallery:
		return b.gallery(v, ptr)
	default:
		return b.input(v, ptr, key)
	}
}

func (b *builder) input(v models.JSONValue, ptr models.Pointer, key string) *view.Node {
	initial := v.Text()
	if v.IsNull() {
		initial = ""
	}
	return &view.Node{
		Widget: view.Input,
		Path:   ptr,
		Key:    key,
		Text:   v.Text(),
		Controls: []view.Control{
			b.control("edit", "Edit value", view.TextArg, initial, func(text string) Op {
				return Op{Name: OpSet, Path: ptr, Value: text}
			}),
		},
	}
}

// record renders each visible member as a collapsible section.
func (b *builder) record(v models.JSONValue, ptr models.Pointer, depth int) *view.Node {
	node := &view.Node{Widget: view.Record, Path: ptr}
	for _, f := range b.e.classifier.VisibleFields(v) {
		if f.Key == blocks.BlocksKey && blocks.IsBlockField(v) {
			continue
		}
		s := b.e.classifier.ClassifyField(f.Key, f.Value)
		fieldPtr := ptr.Key(f.Key)
		section := &view.Node{
			Widget:  view.Section,
			Path:    fieldPtr,
			Key:     f.Key,
			Label:   classifier.Label(f.Key),
			Primary: depth == 0,
			Controls: []view.Control{
				b.fixed("delete-field", "Delete field", Op{Name: OpDeleteField, Path: ptr, Key: f.Key}),
			},
		}
		if s == classifier.Scalar || s == classifier.Record {
			section.Controls = append(section.Controls, b.addBlockControls(fieldPtr, f.Key)...)
		}
		section.Children = []*view.Node{b.value(f.Value, fieldPtr, f.Key, s, depth+1)}
		node.Children = append(node.Children, section)
	}
	return node
}

func (b *builder) addBlockControls(ptr models.Pointer, key string) []view.Control {
	if key != "" && !b.e.policy.ShowBlockControls(key) {
		return nil
	}
	out := make([]view.Control, 0, len(blocks.Kinds))
	for _, kind := range blocks.Kinds {
		out = append(out, b.fixed("add-"+string(kind), fmt.Sprintf("Add %s block", kind),
			Op{Name: OpAddBlock, Path: ptr, Kind: kind}))
	}
	return out
}

// blockField renders the blocks of a field followed by its other members.
func (b *builder) blockField(v models.JSONValue, ptr models.Pointer, key string, depth int, allowAdd bool) *view.Node {
	node := &view.Node{Widget: view.Blocks, Path: ptr, Key: key}
	if allowAdd {
		node.Controls = b.addBlockControls(ptr, "")
	}
	for i, blk := range blocks.List(v) {
		node.Children = append(node.Children, b.block(blk, ptr, i))
	}
	if v.Len() > 1 {
		if rest := b.record(v, ptr, depth); len(rest.Children) > 0 {
			node.Children = append(node.Children, rest)
		}
	}
	return node
}

func (b *builder) block(blk models.JSONValue, fieldPtr models.Pointer, i int) *view.Node {
	blkPtr := fieldPtr.Key(blocks.BlocksKey).Index(i)
	kind := blocks.KindOf(blk)
	node := &view.Node{
		Widget: view.Block,
		Path:   blkPtr,
		Label:  string(kind),
		Controls: []view.Control{
			b.fixed("remove-block", "Remove block", Op{Name: OpRemoveBlock, Path: fieldPtr, Index: i}),
		},
	}
	decoded, err := blocks.Decode(blk)
	if err != nil {
		node.Children = []*view.Node{{Widget: view.ReadOnly, Path: blkPtr, Text: blk.String()}}
		return node
	}
	data, ok := blk.Get("data")
	if !ok {
		data = models.Object()
	}
	dataPtr := blkPtr.Key("data")

	switch kind {
	case blocks.KindText:
		node.Children = []*view.Node{{
			Widget: view.Input,
			Path:   dataPtr.Key("text"),
			Text:   decoded.Text,
			Controls: []view.Control{
				b.control("edit", "Edit text", view.TextArg, decoded.Text, func(text string) Op {
					return Op{Name: OpEditText, Path: blkPtr, Value: text}
				}),
			},
		}}
	case blocks.KindList:
		items, _ := data.Get("items")
		node.Children = []*view.Node{b.lines(items, blkPtr, dataPtr.Key("items"))}
	case blocks.KindTable:
		node.Children = []*view.Node{b.grid(blkPtr, dataPtr.Key("rows"), decoded.Rows, decoded.Columns, true)}
	}
	return node
}

// lines renders a list of scalars. Edits address opPtr, which is either the
// array itself or a list block.
func (b *builder) lines(list models.JSONValue, opPtr, itemsPtr models.Pointer) *view.Node {
	node := &view.Node{
		Widget: view.Lines,
		Path:   opPtr,
		Controls: []view.Control{
			b.fixed("add-line", "Add line", Op{Name: OpAddLine, Path: opPtr}),
		},
	}
	for j, text := range cells.Lines(list) {
		j := j
		initial := text
		if item, _ := list.Index(j); item.IsNull() {
			initial = ""
		}
		node.Children = append(node.Children, &view.Node{
			Widget: view.Input,
			Path:   itemsPtr.Index(j),
			Text:   text,
			Controls: []view.Control{
				b.control("edit", "Edit line", view.TextArg, initial, func(text string) Op {
					return Op{Name: OpEditLine, Path: opPtr, Index: j, Value: text}
				}),
				b.fixed("remove-line", "Remove line", Op{Name: OpRemoveLine, Path: opPtr, Index: j}),
			},
		})
	}
	return node
}

func (b *builder) matrix(m models.JSONValue, ptr models.Pointer) *view.Node {
	return b.grid(ptr, ptr, cells.Rows(m), nil, false)
}

// grid renders a matrix or the rows of a table block. Row and column edits
// address opPtr; for table blocks that is the block so headers stay in step.
func (b *builder) grid(opPtr, rowsPtr models.Pointer, rows [][]string, headers []string, withHeaders bool) *view.Node {
	node := &view.Node{
		Widget:  view.Grid,
		Path:    opPtr,
		Columns: headers,
		Controls: []view.Control{
			b.fixed("add-row", "Add row", Op{Name: OpAddRow, Path: opPtr}),
			b.fixed("add-column", "Add column", Op{Name: OpAddColumn, Path: opPtr}),
		},
	}
	if withHeaders {
		header := &view.Node{Widget: view.Row, Path: opPtr.Key("data").Key("columns"), Key: "header"}
		for c, text := range headers {
			c := c
			header.Children = append(header.Children, &view.Node{
				Widget: view.Input,
				Path:   header.Path.Index(c),
				Text:   text,
				Controls: []view.Control{
					b.control("edit", "Edit header", view.TextArg, text, func(text string) Op {
						return Op{Name: OpEditHeader, Path: opPtr, Index: c, Value: text}
					}),
					b.fixed("remove-column", "Remove column", Op{Name: OpRemoveColumn, Path: opPtr, Index: c}),
				},
			})
		}
		node.Children = append(node.Children, header)
	}
	for r, texts := range rows {
		r := r
		rowNode := &view.Node{
			Widget: view.Row,
			Path:   rowsPtr.Index(r),
			Controls: []view.Control{
				b.fixed("remove-row", "Remove row", Op{Name: OpRemoveRow, Path: opPtr, Index: r}),
			},
		}
		for c, text := range texts {
			c := c
			rowNode.Children = append(rowNode.Children, &view.Node{
				Widget: view.Input,
				Path:   rowNode.Path.Index(c),
				Text:   text,
				Controls: []view.Control{
					b.control("edit", "Edit cell", view.TextArg, text, func(text string) Op {
						return Op{Name: OpEditCell, Path: opPtr, Row: r, Col: c, Value: text}
					}),
					b.fixed("remove-column", "Remove column", Op{Name: OpRemoveColumn, Path: opPtr, Index: c}),
				},
			})
		}
		node.Children = append(node.Children, rowNode)
	}
	return node
}

// table renders an array of records as rows over the union of their keys.
func (b *builder) table(v models.JSONValue, ptr models.Pointer, depth int) *view.Node {
	cols := b.e.classifier.Columns(v)
	node := &view.Node{
		Widget: view.Table,
		Path:   ptr,
		Controls: []view.Control{
			b.fixed("add-record", "Add row", Op{Name: OpAddRecord, Path: ptr}),
		},
	}
	for _, col := range cols {
		node.Columns = append(node.Columns, classifier.Label(col))
	}
	for r, row := range v.Items() {
		rowPtr := ptr.Index(r)
		rowNode := &view.Node{
			Widget: view.Row,
			Path:   rowPtr,
			Controls: []view.Control{
				b.fixed("remove-record", "Delete row", Op{Name: OpRemoveRecord, Path: ptr, Index: r}),
			},
		}
		for _, col := range cols {
			rowNode.Children = append(rowNode.Children, b.cell(row, rowPtr, col, depth+1))
		}
		node.Children = append(node.Children, rowNode)
	}
	return node
}

func (b *builder) cell(row models.JSONValue, rowPtr models.Pointer, col string, depth int) *view.Node {
	cellPtr := rowPtr.Key(col)
	val, ok := row.Get(col)
	switch {
	case b.e.policy.IsSimple(col):
		text := ""
		if ok {
			text = val.Text()
		}
		return &view.Node{Widget: view.ReadOnly, Path: cellPtr, Key: col, Text: text}
	case !ok:
		return &view.Node{Widget: view.Blocks, Path: cellPtr, Key: col, Controls: b.addBlockControls(cellPtr, col)}
	}
	s := b.e.classifier.ClassifyField(col, val)
	if s == classifier.Scalar {
		// Cells hold block content; a bare scalar is shown as-is until a
		// block is added around it.
		return &view.Node{Widget: view.ReadOnly, Path: cellPtr, Key: col, Text: val.Text(),
			Controls: b.addBlockControls(cellPtr, col)}
	}
	node := b.value(val, cellPtr, col, s, depth)
	if s == classifier.Record {
		node.Controls = append(node.Controls, b.addBlockControls(cellPtr, col)...)
	}
	return node
}

func (b *builder) stack(v models.JSONValue, ptr models.Pointer, depth int) *view.Node {
	node := &view.Node{
		Widget: view.Stack,
		Path:   ptr,
		Controls: []view.Control{
			b.fixed("append-item", "Add item", Op{Name: OpAppendItem, Path: ptr}),
		},
	}
	for i, item := range v.Items() {
		itemPtr := ptr.Index(i)
		node.Children = append(node.Children, &view.Node{
			Widget: view.Item,
			Path:   itemPtr,
			Label:  fmt.Sprintf("#%d", i+1),
			Controls: []view.Control{
				b.fixed("delete-item", "Delete item", Op{Name: OpDeleteItem, Path: ptr, Index: i}),
			},
			Children: []*view.Node{b.value(item, itemPtr, "", classifier.Classify(item), depth+1)},
		})
	}
	return node
}

func (b *builder) gallery(v models.JSONValue, ptr models.Pointer) *view.Node {
	node := &view.Node{
		Widget: view.Gallery,
		Path:   ptr,
		Controls: []view.Control{
			b.control("add-image", "Add image URL", view.TextArg, "", func(url string) Op {
				return Op{Name: OpAddImage, Path: ptr, Value: url}
			}),
		},
	}
	for i, item := range v.Items() {
		node.Children = append(node.Children, &view.Node{
			Widget: view.Image,
			Path:   ptr.Index(i),
			Text:   ImageURL(item),
			Controls: []view.Control{
				b.fixed("remove-image", "Remove image", Op{Name: OpRemoveImage, Path: ptr, Index: i}),
			},
		})
	}
	return node
}

// ImageURL is the address shown for a gallery item: the string itself, or
// the url or src member of an object.
func ImageURL(item models.JSONValue) string {
	if item.IsObject() {
		for _, key := range []string{"url", "src"} {
			if u, ok := item.Get(key); ok && u.Kind() == models.KindString {
				return u.StringValue()
			}
		}
	}
	return item.Text()
}

func allScalars(v models.JSONValue) bool {
	if v.Len() == 0 {
		return false
	}
	for _, item := range v.Items() {
		if !item.IsScalar() {
			return false
		}
	}
	return true
}
