package mcpserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tools file (mcp.yaml). Every field is optional.
type Config struct {
	Name         string                  `yaml:"name"`
	Instructions string                  `yaml:"instructions"`
	Overrides    map[string]ToolOverride `yaml:"overrides"`
}

// ToolOverride replaces the built-in description or annotations of one tool.
type ToolOverride struct {
	Description string `yaml:"description"`
	ReadOnly    *bool  `yaml:"readonly"`
	Destructive *bool  `yaml:"destructive"`
	Idempotent  *bool  `yaml:"idempotent"`
}

// LoadConfig reads the tools file at path. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a tools file from raw bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = "mitra-admin"
	}
	if cfg.Instructions == "" {
		cfg.Instructions = "Marketplace admin tools: review and moderate partner products, inspect partners and business categories."
	}
	for name := range cfg.Overrides {
		if _, ok := toolNames[name]; !ok {
			return nil, fmt.Errorf("parse mcp config: override for unknown tool %q", name)
		}
	}

	return &cfg, nil
}
