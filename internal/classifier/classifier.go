// Package classifier decides how each node of a document is edited.
//
// Classify is a total function of a value's runtime shape and is recomputed on
// every render; nothing is cached. Field level decisions that depend on the
// field's name (hidden fields, image galleries) live on Classifier, which
// carries the visibility policy.
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/blocktree/internal/blocks"
	"github.com/mcncl/blocktree/internal/cells"
	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/models"
)

// Strategy is the editing strategy picked for a node.
type Strategy int

const (
	Scalar Strategy = iota
	BlockContainer
	HomogeneousRecordArray
	HeterogeneousArray
	Matrix
	Record

	// Field-level results, only returned by ClassifyField.
	Hidden
	Gallery
)

var strategyNames = map[Strategy]string{
	Scalar:                 "scalar",
	BlockContainer:         "block-container",
	HomogeneousRecordArray: "record-table",
	HeterogeneousArray:     "stack",
	Matrix:                 "matrix",
	Record:                 "record",
	Hidden:                 "hidden",
	Gallery:                "gallery",
}

// String returns the short name used in CLI output.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// Classify picks the strategy for v from its shape alone.
//
// Scalars (null included) are Scalar. An array is a Matrix when every element
// is an array of scalars, a HomogeneousRecordArray when every element is an
// object without a type tag, and a HeterogeneousArray otherwise; the empty
// array is a HeterogeneousArray because there are no rows to infer columns
// from. Objects are Records, refined to BlockContainer when they carry a
// blocks array.
func Classify(v models.JSONValue) Strategy {
	switch v.Kind() {
	case models.KindArray:
		return classifyArray(v)
	case models.KindObject:
		if blocks.IsBlockField(v) {
			return BlockContainer
		}
		return Record
	default:
		return Scalar
	}
}

func classifyArray(arr models.JSONValue) Strategy {
	if arr.Len() == 0 {
		return HeterogeneousArray
	}
	if cells.IsMatrix(arr) {
		return Matrix
	}
	for _, item := range arr.Items() {
		if !item.IsObject() || blocks.IsTagged(item) {
			return HeterogeneousArray
		}
	}
	return HomogeneousRecordArray
}

// Classifier applies the field visibility policy on top of Classify.
type Classifier struct {
	policy *config.Policy
}

// NewClassifier creates a Classifier with the default policy.
func NewClassifier() *Classifier {
	return &Classifier{policy: config.DefaultPolicy()}
}

// NewClassifierWithPolicy creates a Classifier with a custom policy.
func NewClassifierWithPolicy(p *config.Policy) *Classifier {
	if p == nil {
		p = config.DefaultPolicy()
	}
	return &Classifier{policy: p}
}

// Policy returns the visibility policy in use.
func (c *Classifier) Policy() *config.Policy { return c.policy }

// ClassifyField picks the strategy for the member key of an object. Hidden
// fields are never rendered, and an image field holding an array is a
// gallery regardless of what the array contains.
func (c *Classifier) ClassifyField(key string, v models.JSONValue) Strategy {
	if c.policy.IsHidden(key) {
		return Hidden
	}
	if v.IsArray() && c.policy.IsImageField(key) {
		return Gallery
	}
	return Classify(v)
}

// Columns returns the column set of a record table: the union of the rows'
// keys in first-seen order, without hidden keys.
func (c *Classifier) Columns(rows models.JSONValue) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows.Items() {
		for _, key := range row.Keys() {
			if _, ok := seen[key]; ok || c.policy.IsHidden(key) {
				continue
			}
			seen[key] = struct{}{}
			cols = append(cols, key)
		}
	}
	return cols
}

// VisibleFields returns the members of an object that are rendered.
func (c *Classifier) VisibleFields(obj models.JSONValue) []models.Field {
	var out []models.Field
	for _, f := range obj.Fields() {
		if !c.policy.IsHidden(f.Key) {
			out = append(out, f)
		}
	}
	return out
}

// Label turns a field key into a display label: "applicationDate",
// "application_date" and "application-date" all become "Application Date".
func Label(key string) string {
	words := strings.Fields(strcase.ToDelimited(key, ' '))
	if len(words) == 0 {
		return key
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
