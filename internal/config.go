package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".relkit.yaml"

type Config struct {
	DefaultVersion string   `yaml:"default_version,omitempty"`
	Manifests      []string `yaml:"manifests,omitempty"`
	WorkspaceDeps  bool     `yaml:"workspace_deps,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultVersion: "0.0.0",
		Manifests:      []string{"Cargo.toml"},
	}
}

func ConfigPath(root string) string {
	return filepath.Join(root, configFileName)
}

func LoadConfig(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = "0.0.0"
	}
	if len(cfg.Manifests) == 0 {
		cfg.Manifests = []string{"Cargo.toml"}
	}

	return &cfg, nil
}

func SaveConfig(root string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
