package cells

import (
	"github.com/mcncl/blocktree/internal/models"
)

// Lines returns the display text of every item. Strings show as-is, anything
// else as its JSON text.
func Lines(list models.JSONValue) []string {
	out := make([]string, 0, list.Len())
	for _, item := range list.Items() {
		out = append(out, item.Text())
	}
	return out
}

// AddLine appends an empty string.
func AddLine(list models.JSONValue) (models.JSONValue, error) {
	if err := requireArray(list); err != nil {
		return models.JSONValue{}, err
	}
	return list.Append(models.String("")), nil
}

// EditLine replaces item i with text.
func EditLine(list models.JSONValue, i int, text string) (models.JSONValue, error) {
	if err := requireArray(list); err != nil {
		return models.JSONValue{}, err
	}
	if err := checkIndex("line", i, list.Len()); err != nil {
		return models.JSONValue{}, err
	}
	return list.WithIndex(i, models.String(text)), nil
}

// RemoveLine removes item i; later items shift down.
func RemoveLine(list models.JSONValue, i int) (models.JSONValue, error) {
	if err := requireArray(list); err != nil {
		return models.JSONValue{}, err
	}
	if err := checkIndex("line", i, list.Len()); err != nil {
		return models.JSONValue{}, err
	}
	return list.WithoutIndex(i), nil
}
