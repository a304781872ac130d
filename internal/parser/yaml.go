package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/models"
)

// ParseYAML reads one YAML document. Mapping order is kept by walking the
// yaml.Node tree instead of decoding into Go maps.
func ParseYAML(reader io.Reader) (models.JSONValue, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.JSONValue{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.JSONValue{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode converts a decoded YAML node into a document value.
func FromYAMLNode(n *yaml.Node) (models.JSONValue, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return models.Null(), nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return models.Null(), nil
		}
		return FromYAMLNode(n.Alias)
	case yaml.MappingNode:
		fields := make([]models.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return models.JSONValue{}, err
			}
			fields = append(fields, models.Field{Key: n.Content[i].Value, Value: val})
		}
		return models.Object(fields...), nil
	case yaml.SequenceNode:
		items := make([]models.JSONValue, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := FromYAMLNode(c)
			if err != nil {
				return models.JSONValue{}, err
			}
			items = append(items, item)
		}
		return models.Array(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("unsupported YAML node at line %d", n.Line), errors.ErrInvalidYAML)
	}
}

func yamlScalar(n *yaml.Node) (models.JSONValue, error) {
	switch n.ShortTag() {
	case "!!null":
		return models.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("bad boolean at line %d", n.Line), err)
		}
		return models.Bool(b), nil
	case "!!int":
		if _, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return models.Number(n.Value), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("bad integer at line %d", n.Line), err)
		}
		return models.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return models.JSONValue{}, errors.NewParsingError(fmt.Sprintf("bad number at line %d", n.Line), err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return models.String(n.Value), nil
		}
		if _, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return models.Number(n.Value), nil
		}
		return models.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return models.String(n.Value), nil
	}
}
