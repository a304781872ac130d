// Package cells implements the grid and line editors shared by array fields
// and by table and list blocks.
//
// Both work on models.JSONValue directly so that a grid read from a document
// is returned untouched until an operation actually changes it.
package cells

import (
	"fmt"

	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// DefaultWidth is the column count of a fresh matrix and of a row added to an
// empty one.
const DefaultWidth = 2

// IsMatrix reports whether v is an array whose every element is an array of
// scalars. The empty array is not a matrix.
func IsMatrix(v models.JSONValue) bool {
	if !v.IsArray() || v.Len() == 0 {
		return false
	}
	for _, row := range v.Items() {
		if !row.IsArray() {
			return false
		}
		for _, cell := range row.Items() {
			if !cell.IsScalar() {
				return false
			}
		}
	}
	return true
}

// Width is the canonical column count: the length of the first row, or zero
// when there are no rows or the first row is not an array. Shorter rows read
// as padded with empty cells.
func Width(m models.JSONValue) int {
	first, ok := m.Index(0)
	if !ok || !first.IsArray() {
		return 0
	}
	return first.Len()
}

// Rows returns the display text of every cell, padding short rows and
// truncating long ones to Width.
func Rows(m models.JSONValue) [][]string {
	return RowsOf(m, Width(m))
}

// RowsOf is Rows at a given width. Rows that are not arrays read as empty.
func RowsOf(m models.JSONValue, width int) [][]string {
	out := make([][]string, 0, m.Len())
	for _, row := range m.Items() {
		texts := make([]string, width)
		for c := 0; c < width; c++ {
			if cell, ok := row.Index(c); ok {
				texts[c] = cell.Text()
			}
		}
		out = append(out, texts)
	}
	return out
}

// AddRow appends a row of empty cells as wide as the first row, or two cells
// wide when the matrix has no rows.
func AddRow(m models.JSONValue) (models.JSONValue, error) {
	if err := requireArray(m); err != nil {
		return models.JSONValue{}, err
	}
	width := Width(m)
	if m.Len() == 0 {
		width = DefaultWidth
	}
	return m.Append(EmptyRow(width)), nil
}

// RemoveRow removes row i. A matrix may reach zero rows.
func RemoveRow(m models.JSONValue, i int) (models.JSONValue, error) {
	if err := requireArray(m); err != nil {
		return models.JSONValue{}, err
	}
	if err := checkIndex("row", i, m.Len()); err != nil {
		return models.JSONValue{}, err
	}
	return m.WithoutIndex(i), nil
}

// AddColumn appends an empty cell to every row. Rows are brought to the
// canonical width first so the result is rectangular.
func AddColumn(m models.JSONValue) (models.JSONValue, error) {
	if err := requireRows(m); err != nil {
		return models.JSONValue{}, err
	}
	width := Width(m)
	rows := make([]models.JSONValue, 0, m.Len())
	for _, row := range m.Items() {
		r, err := Resize(row, width)
		if err != nil {
			return models.JSONValue{}, err
		}
		rows = append(rows, r.Append(models.String("")))
	}
	return models.Array(rows...), nil
}

// RemoveColumn removes column col from every row. A matrix with a single
// column is returned unchanged so the grid never reaches zero width.
func RemoveColumn(m models.JSONValue, col int) (models.JSONValue, error) {
	if err := requireRows(m); err != nil {
		return models.JSONValue{}, err
	}
	width := Width(m)
	if width <= 1 {
		return m, nil
	}
	if err := checkIndex("column", col, width); err != nil {
		return models.JSONValue{}, err
	}
	rows := make([]models.JSONValue, 0, m.Len())
	for _, row := range m.Items() {
		r, err := Resize(row, width)
		if err != nil {
			return models.JSONValue{}, err
		}
		rows = append(rows, r.WithoutIndex(col))
	}
	return models.Array(rows...), nil
}

// EditCell stores text in one cell. A short row is padded to the canonical
// width before the write; no other row changes.
func EditCell(m models.JSONValue, row, col int, text string) (models.JSONValue, error) {
	if err := requireArray(m); err != nil {
		return models.JSONValue{}, err
	}
	if err := checkIndex("row", row, m.Len()); err != nil {
		return models.JSONValue{}, err
	}
	r, _ := m.Index(row)
	if !r.IsArray() {
		return models.JSONValue{}, fmt.Errorf("%w: row %d is %s", errors.ErrWrongKind, row, r.Kind())
	}
	width := Width(m)
	if r.Len() > width {
		width = r.Len()
	}
	if err := checkIndex("column", col, width); err != nil {
		return models.JSONValue{}, err
	}
	if col >= r.Len() {
		padded, err := Resize(r, width)
		if err != nil {
			return models.JSONValue{}, err
		}
		r = padded
	}
	return m.WithIndex(row, r.WithIndex(col, models.String(text))), nil
}

// Resize pads row with empty cells or truncates it to width. Anything but an
// array is ErrWrongKind.
func Resize(row models.JSONValue, width int) (models.JSONValue, error) {
	if err := requireArray(row); err != nil {
		return models.JSONValue{}, err
	}
	n := row.Len()
	switch {
	case n == width:
		return row, nil
	case n > width:
		return models.Array(row.Items()[:width]...), nil
	default:
		items := row.Items()
		for ; n < width; n++ {
			items = append(items, models.String(""))
		}
		return models.Array(items...), nil
	}
}

// EmptyRow returns width empty string cells.
func EmptyRow(width int) models.JSONValue {
	cells := make([]models.JSONValue, width)
	for i := range cells {
		cells[i] = models.String("")
	}
	return models.Array(cells...)
}

func requireArray(v models.JSONValue) error {
	if !v.IsArray() {
		return fmt.Errorf("%w: expected an array, got %s", errors.ErrWrongKind, v.Kind())
	}
	return nil
}

// requireRows checks that m is an array of arrays.
func requireRows(m models.JSONValue) error {
	if err := requireArray(m); err != nil {
		return err
	}
	for i, row := range m.Items() {
		if !row.IsArray() {
			return fmt.Errorf("%w: row %d is %s", errors.ErrWrongKind, i, row.Kind())
		}
	}
	return nil
}

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s %d, length %d", errors.ErrIndexOutOfRange, what, i, n)
	}
	return nil
}
