package domain

// ConfigVersion is the avie.yaml schema version this build understands.
const ConfigVersion = 1

// Config represents the minimal avie configuration loaded from avie.yaml.
type Config struct {
	// Name is the workspace display name. Empty means "use the directory name".
	Name     string
	Defaults DefaultsConfig
	Paths    PathsConfig
	Logging  LoggingConfig
}

type DefaultsConfig struct {
	// Scenario applied when a case names none and the CLI passes none.
	Scenario string
	// ControlPoints overrides the per-segment sample count for missions
	// that do not set their own. Zero keeps the mission value.
	ControlPoints int
}

type PathsConfig struct {
	VehiclesDir  string
	MissionsDir  string
	CasesDir     string
	ScenariosDir string
	StudiesDir   string
	RunsDir      string
}

type LoggingConfig struct {
	Level string
}

// DefaultConfig provides sane defaults if avie.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Scenario:      "",
			ControlPoints: 0,
		},
		Paths: PathsConfig{
			VehiclesDir:  "vehicles",
			MissionsDir:  "missions",
			CasesDir:     "cases",
			ScenariosDir: "scenarios",
			StudiesDir:   "studies",
			RunsDir:      "runs",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
	// Name becomes the workspace display name in avie.yaml. Empty means
	// "use the base name of Root".
	Name string
}
