package config

type yamlConfig struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name"`

	Defaults struct {
		Scenario      string `yaml:"scenario"`
		ControlPoints int    `yaml:"control_points"`
	} `yaml:"defaults"`

	Paths struct {
		VehiclesDir  string `yaml:"vehicles_dir"`
		MissionsDir  string `yaml:"missions_dir"`
		CasesDir     string `yaml:"cases_dir"`
		ScenariosDir string `yaml:"scenarios_dir"`
		StudiesDir   string `yaml:"studies_dir"`
		RunsDir      string `yaml:"runs_dir"`
	} `yaml:"paths"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}
