package blocks

import (
	"fmt"

	"github.com/mcncl/blocktree/internal/cells"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// SetText replaces the text of a text block.
func SetText(block models.JSONValue, text string) (models.JSONValue, error) {
	return updateData(block, KindText, func(data models.JSONValue) (models.JSONValue, error) {
		return data.WithField("text", models.String(text)), nil
	})
}

// UpdateItems replaces the items of a list block with fn(items).
func UpdateItems(block models.JSONValue, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	return updateMember(block, KindList, "items", fn)
}

// UpdateRows replaces the rows of a table block with fn(rows). Headers are
// left alone; use the table column functions to change the column count.
func UpdateRows(block models.JSONValue, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	return updateMember(block, KindTable, "rows", fn)
}

// TableWidth is the column count of a table block: the header count, or the
// first row's length when the table has no headers.
func TableWidth(block models.JSONValue) int {
	data, _ := block.Get("data")
	cols, _ := data.Get("columns")
	if cols.Len() > 0 {
		return cols.Len()
	}
	rows, _ := data.Get("rows")
	return cells.Width(rows)
}

// AddTableRow appends an empty row as wide as the table.
func AddTableRow(block models.JSONValue) (models.JSONValue, error) {
	width := TableWidth(block)
	if width == 0 {
		width = cells.DefaultWidth
	}
	return UpdateRows(block, func(rows models.JSONValue) (models.JSONValue, error) {
		return rows.Append(cells.EmptyRow(width)), nil
	})
}

// RemoveTableRow removes row i of a table block.
func RemoveTableRow(block models.JSONValue, i int) (models.JSONValue, error) {
	return UpdateRows(block, func(rows models.JSONValue) (models.JSONValue, error) {
		return cells.RemoveRow(rows, i)
	})
}

// EditTableCell stores text in one cell of a table block.
func EditTableCell(block models.JSONValue, row, col int, text string) (models.JSONValue, error) {
	return UpdateRows(block, func(rows models.JSONValue) (models.JSONValue, error) {
		return cells.EditCell(rows, row, col, text)
	})
}

// AddTableColumn appends a column with a default header and an empty cell in
// every row.
func AddTableColumn(block models.JSONValue) (models.JSONValue, error) {
	width := TableWidth(block)
	return updateData(block, KindTable, func(data models.JSONValue) (models.JSONValue, error) {
		cols, err := resizeMember(data, "columns", width)
		if err != nil {
			return models.JSONValue{}, err
		}
		rows, err := resizeRows(data, width)
		if err != nil {
			return models.JSONValue{}, err
		}
		if rows, err = cells.AddColumn(rows); err != nil {
			return models.JSONValue{}, err
		}
		cols = cols.Append(models.String(HeaderLabel(width)))
		return data.WithField("columns", cols).WithField("rows", rows), nil
	})
}

// RemoveTableColumn removes header col and cell col of every row. A table
// with one column is returned unchanged.
func RemoveTableColumn(block models.JSONValue, col int) (models.JSONValue, error) {
	width := TableWidth(block)
	if width <= 1 {
		if KindOf(block) != KindTable {
			return models.JSONValue{}, kindMismatch(block, KindTable)
		}
		return block, nil
	}
	if col < 0 || col >= width {
		return models.JSONValue{}, fmt.Errorf("%w: column %d, width %d", errors.ErrIndexOutOfRange, col, width)
	}
	return updateData(block, KindTable, func(data models.JSONValue) (models.JSONValue, error) {
		cols, err := resizeMember(data, "columns", width)
		if err != nil {
			return models.JSONValue{}, err
		}
		rows, err := resizeRows(data, width)
		if err != nil {
			return models.JSONValue{}, err
		}
		out := make([]models.JSONValue, 0, rows.Len())
		for _, r := range rows.Items() {
			out = append(out, r.WithoutIndex(col))
		}
		return data.WithField("columns", cols.WithoutIndex(col)).WithField("rows", models.Array(out...)), nil
	})
}

// EditHeader renames header col of a table block.
func EditHeader(block models.JSONValue, col int, text string) (models.JSONValue, error) {
	return updateMember(block, KindTable, "columns", func(cols models.JSONValue) (models.JSONValue, error) {
		return cells.EditLine(cols, col, text)
	})
}

// resizeMember reads an array member of data, missing or null as empty, and
// brings it to width.
func resizeMember(data models.JSONValue, key string, width int) (models.JSONValue, error) {
	member, ok := data.Get(key)
	if !ok || member.IsNull() {
		member = models.Array()
	}
	out, err := cells.Resize(member, width)
	if err != nil {
		return models.JSONValue{}, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

// resizeRows brings every row of data's rows member to width. A row that is
// not an array is ErrWrongKind.
func resizeRows(data models.JSONValue, width int) (models.JSONValue, error) {
	rows, ok := data.Get("rows")
	if !ok || rows.IsNull() {
		return models.Array(), nil
	}
	if !rows.IsArray() {
		return models.JSONValue{}, fmt.Errorf("%w: rows is %s", errors.ErrWrongKind, rows.Kind())
	}
	out := make([]models.JSONValue, 0, rows.Len())
	for i, r := range rows.Items() {
		row, err := cells.Resize(r, width)
		if err != nil {
			return models.JSONValue{}, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, row)
	}
	return models.Array(out...), nil
}

func updateMember(block models.JSONValue, kind Kind, key string, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	return updateData(block, kind, func(data models.JSONValue) (models.JSONValue, error) {
		member, ok := data.Get(key)
		if !ok || member.IsNull() {
			member = models.Array()
		}
		next, err := fn(member)
		if err != nil {
			return models.JSONValue{}, err
		}
		return data.WithField(key, next), nil
	})
}

func updateData(block models.JSONValue, kind Kind, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	if KindOf(block) != kind {
		return models.JSONValue{}, kindMismatch(block, kind)
	}
	data, ok := block.Get("data")
	if !ok {
		data = models.Object()
	}
	next, err := fn(data)
	if err != nil {
		return models.JSONValue{}, err
	}
	return block.WithField("data", next), nil
}

func kindMismatch(block models.JSONValue, want Kind) error {
	if !IsBlock(block) {
		return fmt.Errorf("%w: not a content block", errors.ErrWrongKind)
	}
	return fmt.Errorf("%w: block is %q, not %q", errors.ErrBlockKindMismatch, KindOf(block), want)
}
