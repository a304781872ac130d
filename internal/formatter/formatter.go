// Package formatter encodes documents for output as indented JSON or YAML,
// keeping object key order.
package formatter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/models"
)

// Format names an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formatter encodes documents in one format.
type Formatter struct {
	format Format
	indent string
}

// NewFormatter creates a Formatter from the output config. An empty format
// means JSON and an empty indent means two spaces.
func NewFormatter(cfg config.OutputConfig) *Formatter {
	f := &Formatter{format: JSON, indent: cfg.Indent}
	if ParseFormat(cfg.Format) == YAML {
		f.format = YAML
	}
	if f.indent == "" {
		f.indent = "  "
	}
	return f
}

// ParseFormat maps "yml" to YAML and anything else that is not "yaml" to JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return YAML
	default:
		return JSON
	}
}

// ForPath returns a Formatter whose format follows the extension of path:
// .yml and .yaml select YAML, .json selects JSON, anything else keeps f's.
func (f *Formatter) ForPath(path string) *Formatter {
	out := *f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		out.format = YAML
	case ".json":
		out.format = JSON
	}
	return &out
}

// Format reports the encoding in use.
func (f *Formatter) Format() Format { return f.format }

// Encode renders doc followed by a newline.
func (f *Formatter) Encode(doc models.JSONValue) ([]byte, error) {
	if f.format == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(len(f.indent))
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	}

	out, err := models.MarshalIndent(doc, f.indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}
