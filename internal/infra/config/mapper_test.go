package config

import (
	"testing"

	"github.com/project-avie/avie/internal/domain"
)

func TestApply_RejectsNewerVersion(t *testing.T) {
	cfg := domain.DefaultConfig()
	y := yamlConfig{Version: domain.ConfigVersion + 1}

	err := apply(&cfg, y, "avie.yaml")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

func TestApply_RejectsAbsolutePaths(t *testing.T) {
	cfg := domain.DefaultConfig()
	var y yamlConfig
	y.Paths.RunsDir = "/var/runs"

	if err := apply(&cfg, y, "avie.yaml"); err == nil {
		t.Fatalf("expected error for absolute runs dir")
	}
}

func TestApply_RejectsBadLogLevel(t *testing.T) {
	cfg := domain.DefaultConfig()
	var y yamlConfig
	y.Logging.Level = "verbose"

	if err := apply(&cfg, y, "avie.yaml"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestApply_RejectsTooFewControlPoints(t *testing.T) {
	cfg := domain.DefaultConfig()
	var y yamlConfig
	y.Defaults.ControlPoints = 1

	if err := apply(&cfg, y, "avie.yaml"); err == nil {
		t.Fatalf("expected error for control_points=1")
	}
}

func TestApply_ZeroValuesKeepDefaults(t *testing.T) {
	cfg := domain.DefaultConfig()
	var y yamlConfig

	if err := apply(&cfg, y, "avie.yaml"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if cfg.Paths.CasesDir != "cases" || cfg.Logging.Level != "info" {
		t.Fatalf("expected defaults preserved, got %+v", cfg)
	}
}
