package editor

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/blocktree/internal/blocks"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/parser"
)

// scriptOp is one entry of an operations script.
type scriptOp struct {
	Op    string    `yaml:"op"`
	Path  string    `yaml:"path"`
	Key   string    `yaml:"key"`
	Index int       `yaml:"index"`
	Row   int       `yaml:"row"`
	Col   int       `yaml:"col"`
	Kind  string    `yaml:"kind"`
	Value string    `yaml:"value"`
	Data  yaml.Node `yaml:"data"`
}

// LoadScript reads a YAML (or JSON) list of operations:
//
//   - op: add-block
//     path: /about
//     kind: text
//   - op: edit-block
//     path: /about
//     index: 0
//     kind: text
//     data: {text: Hello}
func LoadScript(r io.Reader) ([]Op, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewInputError("failed to read operations", err)
	}
	var entries []scriptOp
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, errors.NewParsingError("invalid operations script", err)
	}

	ops := make([]Op, 0, len(entries))
	for i, entry := range entries {
		op, err := entry.toOp()
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("operation %d", i+1), err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (s scriptOp) toOp() (Op, error) {
	if s.Op == "" {
		return Op{}, fmt.Errorf("%w: missing op", errors.ErrUnknownOperation)
	}
	ptr, err := models.ParsePointer(s.Path)
	if err != nil {
		return Op{}, err
	}
	op := Op{
		Name:  OpName(s.Op),
		Path:  ptr,
		Key:   s.Key,
		Index: s.Index,
		Row:   s.Row,
		Col:   s.Col,
		Value: s.Value,
	}
	if s.Kind != "" {
		kind, err := blocks.ParseKind(s.Kind)
		if err != nil {
			return Op{}, err
		}
		op.Kind = kind
	}
	if s.Data.Kind != 0 {
		data, err := parser.FromYAMLNode(&s.Data)
		if err != nil {
			return Op{}, err
		}
		op.Data = data
	}
	return op, nil
}

// ApplyAll applies ops in order and stops at the first failure.
func (e *Editor) ApplyAll(doc models.JSONValue, ops []Op) (models.JSONValue, error) {
	for _, op := range ops {
		next, err := e.Apply(doc, op)
		if err != nil {
			return models.JSONValue{}, err
		}
		doc = next
	}
	return doc, nil
}
