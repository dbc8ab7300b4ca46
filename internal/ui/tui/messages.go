package tui

import "github.com/project-avie/avie/internal/domain"

type workspaceRefreshedMsg struct {
	dir   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type vehiclesLoadedMsg struct {
	refs []domain.VehicleRef
	err  error
}

type vehiclePreviewMsg struct {
	name    string
	preview string
	err     error
}

type missionsLoadedMsg struct {
	refs []domain.MissionRef
	err  error
}

type casesLoadedMsg struct {
	refs []domain.CaseRef
	err  error
}

type scenariosLoadedMsg struct {
	refs []domain.ScenarioRef
	err  error
}

type resultsLoadedMsg struct {
	rows []domain.RunRow
	err  error
}

type resultDetailMsg struct {
	id     string
	detail string
	err    error
}

type runnerDoneMsg struct {
	art domain.RunArtifact
	id  string
	err error
}
