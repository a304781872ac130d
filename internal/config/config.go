package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for blocktree
type Config struct {
	Visibility VisibilityConfig `yaml:"visibility"`
	Render     RenderConfig     `yaml:"render"`
	Output     OutputConfig     `yaml:"output"`
	Dev        DevConfig        `yaml:"dev"`
}

// VisibilityConfig is the field visibility policy: which fields never render
// and which fields never get block controls.
type VisibilityConfig struct {
	// HiddenFields are internal/system keys (ids, version markers) that are
	// never rendered as editable nodes, at any depth.
	HiddenFields []string `yaml:"hidden_fields"`
	// SimpleFields are treated as plain scalars: no add-block controls, and
	// read-only cells in the auto data table.
	SimpleFields []string `yaml:"simple_fields"`
	// GalleryFields hold image URL lists even when their name lacks ImageMarker.
	GalleryFields []string `yaml:"gallery_fields"`
	// ImageMarker marks a field as an image gallery when it appears anywhere
	// in the field name, case-insensitively.
	ImageMarker string `yaml:"image_marker"`
}

// RenderConfig controls terminal rendering
type RenderConfig struct {
	Color        bool `yaml:"color"`
	Indent       int  `yaml:"indent"`
	MaxCellWidth int  `yaml:"max_cell_width"`
	// CollapseSections starts the interactive editor with nested sections
	// closed.
	CollapseSections bool `yaml:"collapse_sections"`
}

// OutputConfig controls how edited documents are written
type OutputConfig struct {
	Format string `yaml:"format"` // json or yaml; empty follows the output file extension
	Indent string `yaml:"indent"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// DefaultHiddenFields are the system keys of the directory API documents.
var DefaultHiddenFields = []string{"_id", "id", "__v", "heroDownloaded", "url"}

// DefaultSimpleFields are the fields that already have dedicated columns in
// the listing tables and stay plain values inside the tree.
var DefaultSimpleFields = []string{
	"name", "fees", "rating", "reviews", "courseCount",
	"duration", "eligibility", "applicationDate", "course_count",
	"application_date", "title", "location", "rating_count", "mode", "exam_type", "date",
	"blog_count", "enquiry_count", "event_count", "application_dates",
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Visibility: VisibilityConfig{
			HiddenFields:  append([]string(nil), DefaultHiddenFields...),
			SimpleFields:  append([]string(nil), DefaultSimpleFields...),
			GalleryFields: []string{"heroImages", "gallery"},
			ImageMarker:   "image",
		},
		Render: RenderConfig{
			Color:        true,
			Indent:       2,
			MaxCellWidth: 24,
		},
		Output: OutputConfig{
			Format: "",
			Indent: "  ",
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".blocktree.yml", ".blocktree.yaml", "blocktree.yml", "blocktree.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	if c.Render.Indent < 0 {
		return fmt.Errorf("render.indent must not be negative")
	}
	if c.Render.MaxCellWidth < 0 {
		return fmt.Errorf("render.max_cell_width must not be negative")
	}
	return nil
}

// Policy builds the field visibility policy from the visibility section.
func (c *Config) Policy() *Policy {
	return NewPolicy(c.Visibility)
}

// LoadConfigWithCLI loads config with CLI argument precedence. Flags that are
// left at their zero value do not override the file.
func LoadConfigWithCLI(configPath string, cliDebug bool, cliLogFile string, cliNoColor bool) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliDebug {
		cfg.Dev.Debug = true
	}
	if cliLogFile != "" {
		cfg.Dev.LogFile = cliLogFile
	}
	if cliNoColor {
		cfg.Render.Color = false
	}

	return cfg, nil
}
