package editor

import (
	"fmt"
	"strings"

	"github.com/mcncl/blocktree/internal/blocks"
	"github.com/mcncl/blocktree/internal/cells"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// OpName names a document edit.
type OpName string

const (
	OpSet          OpName = "set"
	OpDeleteField  OpName = "delete-field"
	OpDeleteItem   OpName = "delete-item"
	OpAppendItem   OpName = "append-item"
	OpAddBlock     OpName = "add-block"
	OpEditBlock    OpName = "edit-block"
	OpEditText     OpName = "edit-text"
	OpRemoveBlock  OpName = "remove-block"
	OpAddLine      OpName = "add-line"
	OpEditLine     OpName = "edit-line"
	OpRemoveLine   OpName = "remove-line"
	OpAddRow       OpName = "add-row"
	OpRemoveRow    OpName = "remove-row"
	OpAddColumn    OpName = "add-column"
	OpRemoveColumn OpName = "remove-column"
	OpEditCell     OpName = "edit-cell"
	OpEditHeader   OpName = "edit-header"
	OpAddRecord    OpName = "add-record"
	OpRemoveRecord OpName = "remove-record"
	OpAddImage     OpName = "add-image"
	OpRemoveImage  OpName = "remove-image"
)

// Op is one edit addressed by a JSON Pointer. Which of the other fields are
// read depends on Name:
//
//	set                          Value replaces the scalar at Path
//	delete-field                 Key is removed from the object at Path
//	delete-item, remove-record,
//	remove-image                 Index is removed from the array at Path
//	append-item                  "" is appended to the array at Path
//	add-block                    a Kind block is appended to the field at Path
//	edit-block                   block Index gets Data; it must be of Kind
//	remove-block                 block Index is removed
//	edit-text                    Value becomes the text of the text block at Path
//	add-line, edit-line,
//	remove-line                  on an array or a list block; Index, Value
//	add-row, remove-row,
//	add-column, remove-column,
//	edit-cell                    on an array of arrays or a table block; Index, Row, Col, Value
//	edit-header                  header Index of the table block at Path becomes Value
//	add-record                   a row with {blocks: []} per column is appended
//	add-image                    Value (a URL) is appended to the gallery at Path
type Op struct {
	Name  OpName
	Path  models.Pointer
	Key   string
	Index int
	Row   int
	Col   int
	Kind  blocks.Kind
	Value string
	Data  models.JSONValue
}

func (op Op) String() string {
	return fmt.Sprintf("%s %s", op.Name, op.Path)
}

// Apply returns the document with op applied. doc itself is never modified.
// Failures are edit AppErrors wrapping the sentinel that describes them.
func (e *Editor) Apply(doc models.JSONValue, op Op) (models.JSONValue, error) {
	next, err := e.apply(doc, op)
	if err != nil {
		e.log.Warn("editor", "operation rejected", map[string]interface{}{
			"op":    string(op.Name),
			"path":  op.Path.String(),
			"error": err,
		})
		return models.JSONValue{}, errors.NewEditError(fmt.Sprintf("cannot %s at %s", op.Name, op.Path), err)
	}
	e.log.Debug("editor", "operation applied", map[string]interface{}{
		"op":   string(op.Name),
		"path": op.Path.String(),
	})
	return next, nil
}

func (e *Editor) apply(doc models.JSONValue, op Op) (models.JSONValue, error) {
	switch op.Name {
	case OpSet:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			if !v.IsScalar() {
				return models.JSONValue{}, fmt.Errorf("%w: set needs a scalar, found %s", errors.ErrWrongKind, v.Kind())
			}
			return models.String(op.Value), nil
		})

	case OpDeleteField:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			if !v.IsObject() {
				return models.JSONValue{}, fmt.Errorf("%w: expected an object, got %s", errors.ErrWrongKind, v.Kind())
			}
			if !v.Has(op.Key) {
				return models.JSONValue{}, fmt.Errorf("%w: no field %q", errors.ErrPathNotFound, op.Key)
			}
			return v.WithoutField(op.Key), nil
		})

	case OpDeleteItem, OpRemoveRecord, OpRemoveImage:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return removeAt(v, op.Index)
		})

	case OpAppendItem:
		return models.Update(doc, op.Path, cells.AddLine)

	case OpAddBlock:
		return updateOrCreate(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return blocks.AddBlock(v, op.Kind)
		})

	case OpEditBlock:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return blocks.EditBlock(v, op.Index, op.Kind, op.Data)
		})

	case OpEditText:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return blocks.SetText(v, op.Value)
		})

	case OpRemoveBlock:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return blocks.RemoveBlock(v, op.Index)
		})

	case OpAddLine, OpEditLine, OpRemoveLine:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			fn := lineEdit(op)
			if blocks.KindOf(v) == blocks.KindList {
				return blocks.UpdateItems(v, fn)
			}
			return fn(v)
		})

	case OpAddRow, OpRemoveRow, OpAddColumn, OpRemoveColumn, OpEditCell:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			if blocks.KindOf(v) == blocks.KindTable {
				return tableEdit(v, op)
			}
			return matrixEdit(v, op)
		})

	case OpEditHeader:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			return blocks.EditHeader(v, op.Index, op.Value)
		})

	case OpAddRecord:
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			if !v.IsArray() {
				return models.JSONValue{}, fmt.Errorf("%w: expected an array, got %s", errors.ErrWrongKind, v.Kind())
			}
			return v.Append(e.NewRecord(v)), nil
		})

	case OpAddImage:
		url := strings.TrimSpace(op.Value)
		if url == "" {
			return models.JSONValue{}, errors.ErrEmptyURL
		}
		return models.Update(doc, op.Path, func(v models.JSONValue) (models.JSONValue, error) {
			if !v.IsArray() && !v.IsNull() {
				return models.JSONValue{}, fmt.Errorf("%w: gallery must be an array, got %s", errors.ErrWrongKind, v.Kind())
			}
			return v.Append(models.String(url)), nil
		})

	default:
		return models.JSONValue{}, fmt.Errorf("%w: %q", errors.ErrUnknownOperation, op.Name)
	}
}

// NewRecord builds the row appended by add-record: every known column preset
// to an empty block container.
func (e *Editor) NewRecord(rows models.JSONValue) models.JSONValue {
	var fields []models.Field
	for _, col := range e.classifier.Columns(rows) {
		fields = append(fields, models.Field{
			Key:   col,
			Value: models.Object(models.Field{Key: blocks.BlocksKey, Value: models.Array()}),
		})
	}
	return models.Object(fields...)
}

func lineEdit(op Op) func(models.JSONValue) (models.JSONValue, error) {
	return func(list models.JSONValue) (models.JSONValue, error) {
		switch op.Name {
		case OpAddLine:
			return cells.AddLine(list)
		case OpEditLine:
			return cells.EditLine(list, op.Index, op.Value)
		default:
			return cells.RemoveLine(list, op.Index)
		}
	}
}

func matrixEdit(m models.JSONValue, op Op) (models.JSONValue, error) {
	switch op.Name {
	case OpAddRow:
		return cells.AddRow(m)
	case OpRemoveRow:
		return cells.RemoveRow(m, op.Index)
	case OpAddColumn:
		return cells.AddColumn(m)
	case OpRemoveColumn:
		return cells.RemoveColumn(m, op.Index)
	default:
		return cells.EditCell(m, op.Row, op.Col, op.Value)
	}
}

func tableEdit(block models.JSONValue, op Op) (models.JSONValue, error) {
	switch op.Name {
	case OpAddRow:
		return blocks.AddTableRow(block)
	case OpRemoveRow:
		return blocks.RemoveTableRow(block, op.Index)
	case OpAddColumn:
		return blocks.AddTableColumn(block)
	case OpRemoveColumn:
		return blocks.RemoveTableColumn(block, op.Index)
	default:
		return blocks.EditTableCell(block, op.Row, op.Col, op.Value)
	}
}

func removeAt(arr models.JSONValue, i int) (models.JSONValue, error) {
	if !arr.IsArray() {
		return models.JSONValue{}, fmt.Errorf("%w: expected an array, got %s", errors.ErrWrongKind, arr.Kind())
	}
	if i < 0 || i >= arr.Len() {
		return models.JSONValue{}, fmt.Errorf("%w: index %d, length %d", errors.ErrIndexOutOfRange, i, arr.Len())
	}
	return arr.WithoutIndex(i), nil
}

// updateOrCreate is models.Update that also accepts a missing final object
// member, which fn then receives as null.
func updateOrCreate(doc models.JSONValue, ptr models.Pointer, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	if ptr.IsRoot() {
		return fn(doc)
	}
	key := ptr.Last()
	return models.Update(doc, ptr.Parent(), func(parent models.JSONValue) (models.JSONValue, error) {
		if !parent.IsObject() {
			return models.Update(parent, models.Pointer{key}, fn)
		}
		cur, _ := parent.Get(key)
		next, err := fn(cur)
		if err != nil {
			return models.JSONValue{}, err
		}
		return parent.WithField(key, next), nil
	})
}
