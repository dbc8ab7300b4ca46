package config

import (
	"fmt"
	"path/filepath"

	"github.com/project-avie/avie/internal/domain"
)

// apply copies parsed values on top of the defaults already in cfg.
func apply(cfg *domain.Config, y yamlConfig, path string) error {
	if y.Version > domain.ConfigVersion {
		return invalidField(path, "version",
			fmt.Sprintf("config version %d is newer than supported version %d", y.Version, domain.ConfigVersion))
	}

	cfg.Name = y.Name

	if y.Defaults.Scenario != "" {
		cfg.Defaults.Scenario = y.Defaults.Scenario
	}
	if y.Defaults.ControlPoints != 0 {
		if y.Defaults.ControlPoints < 2 {
			return invalidField(path, "defaults.control_points", "must be at least 2")
		}
		cfg.Defaults.ControlPoints = y.Defaults.ControlPoints
	}

	dirs := []struct {
		field string
		value string
		dst   *string
	}{
		{"paths.vehicles_dir", y.Paths.VehiclesDir, &cfg.Paths.VehiclesDir},
		{"paths.missions_dir", y.Paths.MissionsDir, &cfg.Paths.MissionsDir},
		{"paths.cases_dir", y.Paths.CasesDir, &cfg.Paths.CasesDir},
		{"paths.scenarios_dir", y.Paths.ScenariosDir, &cfg.Paths.ScenariosDir},
		{"paths.studies_dir", y.Paths.StudiesDir, &cfg.Paths.StudiesDir},
		{"paths.runs_dir", y.Paths.RunsDir, &cfg.Paths.RunsDir},
	}
	for _, d := range dirs {
		if d.value == "" {
			continue
		}
		if filepath.IsAbs(d.value) {
			return invalidField(path, d.field, "must be relative to the workspace root")
		}
		*d.dst = d.value
	}

	if y.Logging.Level != "" {
		switch y.Logging.Level {
		case "debug", "info", "warn", "error":
			cfg.Logging.Level = y.Logging.Level
		default:
			return invalidField(path, "logging.level",
				fmt.Sprintf("unknown level %q (want debug, info, warn or error)", y.Logging.Level))
		}
	}

	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
