package classifier

import (
	"github.com/mcncl/blocktree/internal/models"
)

// Visit is called for every node Walk reaches. key is the member name for
// object members and "" for array items and the root.
type Visit func(ptr models.Pointer, key string, s Strategy)

// Walk classifies every node the tree editor would render, in document order.
// Hidden fields are reported but not entered. Scalars, matrices, galleries
// and block containers are leaves.
func (c *Classifier) Walk(root models.JSONValue, fn Visit) {
	c.walk(root, models.Root, "", Classify(root), fn)
}

func (c *Classifier) walk(v models.JSONValue, ptr models.Pointer, key string, s Strategy, fn Visit) {
	fn(ptr, key, s)
	switch s {
	case Record:
		for _, f := range v.Fields() {
			c.walk(f.Value, ptr.Key(f.Key), f.Key, c.ClassifyField(f.Key, f.Value), fn)
		}
	case HeterogeneousArray:
		for i, item := range v.Items() {
			c.walk(item, ptr.Index(i), "", Classify(item), fn)
		}
	case HomogeneousRecordArray:
		for i, row := range v.Items() {
			rowPtr := ptr.Index(i)
			for _, f := range row.Fields() {
				c.walk(f.Value, rowPtr.Key(f.Key), f.Key, c.ClassifyField(f.Key, f.Value), fn)
			}
		}
	}
}

// WalkAt is Walk over the subtree at ptr. A subtree that is an object member
// is classified by its key, so hidden and gallery fields are reported as such.
func (c *Classifier) WalkAt(root models.JSONValue, ptr models.Pointer, fn Visit) error {
	v, err := models.Get(root, ptr)
	if err != nil {
		return err
	}
	s := Classify(v)
	key := ""
	if !ptr.IsRoot() {
		if parent, err := models.Get(root, ptr.Parent()); err == nil && parent.IsObject() {
			key = ptr.Last()
			s = c.ClassifyField(key, v)
		}
	}
	c.walk(v, ptr, key, s, fn)
	return nil
}
