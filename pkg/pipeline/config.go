package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Kevinm360/Sankey-Diagram/pkg/records"
	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey"
)

// Config is the value object a single run is parameterized with. Paths
// are explicit; nothing is read from embedded constants.
type Config struct {
	InputPath  string          `yaml:"input_path" json:"input_path"`
	OutputPath string          `yaml:"output_path" json:"output_path"`
	Title      string          `yaml:"title" json:"title,omitempty"`
	Columns    records.Columns `yaml:"columns" json:"columns,omitempty"`
	Palette    []string        `yaml:"palette" json:"palette,omitempty"`
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if len(c.Palette) > 0 {
		if err := sankey.ValidatePalette(c.Palette); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults fills the optional fields a profile or request left out.
func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = sankey.DefaultTitle
	}
	if c.Columns.Patient == "" || c.Columns.Description == "" || c.Columns.Start == "" {
		c.Columns = records.DefaultColumns()
	}
	if len(c.Palette) == 0 {
		c.Palette = sankey.DefaultPalette()
	}
	return c
}

// LoadProfile reads a YAML run profile. An empty path yields a zero
// Config for the caller to fill from flags.
func LoadProfile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read profile: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse profile: %w", err)
	}
	return cfg, nil
}
