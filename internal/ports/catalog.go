package ports

import "github.com/project-avie/avie/internal/domain"

// VehicleCatalog loads vehicles from a source (e.g., filesystem).
type VehicleCatalog interface {
	// LoadVehicle accepts a catalog name or a path to a YAML file.
	LoadVehicle(nameOrPath string) (domain.Vehicle, error)
	ListVehicles() ([]domain.VehicleRef, error)
}

// MissionCatalog loads mission profiles.
type MissionCatalog interface {
	LoadMission(nameOrPath string) (domain.Mission, error)
	ListMissions() ([]domain.MissionRef, error)
}

// CaseCatalog loads test cases.
type CaseCatalog interface {
	LoadCase(nameOrPath string) (domain.Case, error)
	ListCases() ([]domain.CaseRef, error)
}

// ScenarioCatalog loads named parameter sets.
type ScenarioCatalog interface {
	LoadScenario(nameOrPath string) (domain.Scenario, error)
	ListScenarios() ([]domain.ScenarioRef, error)
}

// StudyCatalog loads parameter sweep definitions.
type StudyCatalog interface {
	LoadStudy(nameOrPath string) (domain.Study, error)
	ListStudies() ([]domain.StudyRef, error)
}

// Catalog bundles every entity loader of a workspace. Adapters usually
// implement all of them from one root directory.
type Catalog interface {
	VehicleCatalog
	MissionCatalog
	CaseCatalog
	ScenarioCatalog
	StudyCatalog
}
