package blocks

import (
	"fmt"

	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// BlocksKey is the member of a field object that holds its blocks.
const BlocksKey = "blocks"

// ValueKey keeps a scalar field's previous value when blocks are attached.
const ValueKey = "value"

// IsBlockField reports whether v is an object whose "blocks" member is an
// array of content blocks. An empty blocks array counts.
func IsBlockField(v models.JSONValue) bool {
	if !v.IsObject() {
		return false
	}
	list, ok := v.Get(BlocksKey)
	if !ok || !list.IsArray() {
		return false
	}
	for _, b := range list.Items() {
		if !IsBlock(b) {
			return false
		}
	}
	return true
}

// List returns the blocks attached to field, or nil.
func List(field models.JSONValue) []models.JSONValue {
	list, ok := field.Get(BlocksKey)
	if !ok {
		return nil
	}
	return list.Items()
}

// AddBlock appends a default block of kind to field. Sibling keys of an
// object field are kept. A null or empty field starts from an empty object;
// any other scalar is kept under ValueKey.
func AddBlock(field models.JSONValue, kind Kind) (models.JSONValue, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return models.JSONValue{}, err
	}
	obj, err := asContainer(field)
	if err != nil {
		return models.JSONValue{}, err
	}
	list, ok := obj.Get(BlocksKey)
	if ok && !list.IsArray() {
		return models.JSONValue{}, fmt.Errorf("%w: %q is %s, not an array", errors.ErrWrongKind, BlocksKey, list.Kind())
	}
	return obj.WithField(BlocksKey, list.Append(New(kind).Value())), nil
}

// EditBlock replaces the data of block i. The block must already be of kind.
func EditBlock(field models.JSONValue, i int, kind Kind, data models.JSONValue) (models.JSONValue, error) {
	if !data.IsObject() {
		return models.JSONValue{}, fmt.Errorf("%w: block data must be an object, got %s", errors.ErrWrongKind, data.Kind())
	}
	return UpdateBlock(field, i, func(b models.JSONValue) (models.JSONValue, error) {
		if got := KindOf(b); got != kind {
			return models.JSONValue{}, fmt.Errorf("%w: block %d is %q, not %q", errors.ErrBlockKindMismatch, i, got, kind)
		}
		return b.WithField("data", data), nil
	})
}

// RemoveBlock removes block i; later blocks shift down.
func RemoveBlock(field models.JSONValue, i int) (models.JSONValue, error) {
	list, err := blockList(field)
	if err != nil {
		return models.JSONValue{}, err
	}
	if i < 0 || i >= list.Len() {
		return models.JSONValue{}, fmt.Errorf("%w: block %d, length %d", errors.ErrIndexOutOfRange, i, list.Len())
	}
	return field.WithField(BlocksKey, list.WithoutIndex(i)), nil
}

// UpdateBlock replaces block i with fn(block).
func UpdateBlock(field models.JSONValue, i int, fn func(models.JSONValue) (models.JSONValue, error)) (models.JSONValue, error) {
	list, err := blockList(field)
	if err != nil {
		return models.JSONValue{}, err
	}
	b, ok := list.Index(i)
	if !ok {
		return models.JSONValue{}, fmt.Errorf("%w: block %d, length %d", errors.ErrIndexOutOfRange, i, list.Len())
	}
	next, err := fn(b)
	if err != nil {
		return models.JSONValue{}, err
	}
	return field.WithField(BlocksKey, list.WithIndex(i, next)), nil
}

func blockList(field models.JSONValue) (models.JSONValue, error) {
	if !field.IsObject() {
		return models.JSONValue{}, fmt.Errorf("%w: field with blocks must be an object, got %s", errors.ErrWrongKind, field.Kind())
	}
	list, ok := field.Get(BlocksKey)
	if !ok || !list.IsArray() {
		return models.JSONValue{}, fmt.Errorf("%w: field has no %q array", errors.ErrPathNotFound, BlocksKey)
	}
	return list, nil
}

func asContainer(field models.JSONValue) (models.JSONValue, error) {
	switch field.Kind() {
	case models.KindObject:
		return field, nil
	case models.KindArray:
		return models.JSONValue{}, fmt.Errorf("%w: cannot attach blocks to an array", errors.ErrWrongKind)
	case models.KindNull:
		return models.Object(), nil
	case models.KindString:
		if field.StringValue() == "" {
			return models.Object(), nil
		}
	}
	return models.Object(models.Field{Key: ValueKey, Value: field}), nil
}
