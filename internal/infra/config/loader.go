// Package config loads the avie.yaml workspace configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/project-avie/avie/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace marker and configuration file.
const FileName = "avie.yaml"

// Load reads avie.yaml from the workspace root and applies it on top of the
// defaults. The defaults are returned alongside any error so callers can
// still render something sensible.
func Load(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := apply(&cfg, y, path); err != nil {
		return cfg, err
	}

	if cfg.Name == "" {
		cfg.Name = filepath.Base(root)
	}

	return cfg, nil
}
