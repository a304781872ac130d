package models

import (
	"fmt"
	"strconv"

	"github.com/mcncl/blocktree/internal/errors"
)

// Get resolves ptr against root.
func Get(root JSONValue, ptr Pointer) (JSONValue, error) {
	cur := root
	for depth, tok := range ptr {
		next, err := child(cur, tok)
		if err != nil {
			return JSONValue{}, fmt.Errorf("%w (at %s)", err, ptr[:depth+1].String())
		}
		cur = next
	}
	return cur, nil
}

// Update replaces the node at ptr with fn(node) and returns the new root.
// Only the containers on the path from the root to ptr are copied; every
// other subtree is shared with the old root, which is left untouched.
func Update(root JSONValue, ptr Pointer, fn func(JSONValue) (JSONValue, error)) (JSONValue, error) {
	return update(root, ptr, 0, fn)
}

func update(node JSONValue, ptr Pointer, depth int, fn func(JSONValue) (JSONValue, error)) (JSONValue, error) {
	if depth == len(ptr) {
		return fn(node)
	}
	tok := ptr[depth]
	cur, err := child(node, tok)
	if err != nil {
		return JSONValue{}, fmt.Errorf("%w (at %s)", err, ptr[:depth+1].String())
	}
	next, err := update(cur, ptr, depth+1, fn)
	if err != nil {
		return JSONValue{}, err
	}
	if node.kind == KindArray {
		i, _ := arrayIndex(node, tok)
		return node.WithIndex(i, next), nil
	}
	return node.WithField(tok, next), nil
}

func child(v JSONValue, tok string) (JSONValue, error) {
	switch v.kind {
	case KindObject:
		c, ok := v.Get(tok)
		if !ok {
			return JSONValue{}, fmt.Errorf("%w: no field %q", errors.ErrPathNotFound, tok)
		}
		return c, nil
	case KindArray:
		i, err := arrayIndex(v, tok)
		if err != nil {
			return JSONValue{}, err
		}
		return v.items[i], nil
	default:
		return JSONValue{}, fmt.Errorf("%w: cannot descend into %s with %q", errors.ErrNotContainer, v.kind, tok)
	}
}

func arrayIndex(v JSONValue, tok string) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("%w: %q is not an array index", errors.ErrPathNotFound, tok)
	}
	if i < 0 || i >= len(v.items) {
		return 0, fmt.Errorf("%w: index %d, length %d", errors.ErrIndexOutOfRange, i, len(v.items))
	}
	return i, nil
}
