package usecase

import (
	"context"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/sizing"
)

type ValidateCase struct {
	catalog ports.Catalog
}

func NewValidateCase(cat ports.Catalog) *ValidateCase {
	return &ValidateCase{catalog: cat}
}

// Execute checks that a case can run without simulating it: every reference
// resolves, all parameter overrides apply, and the sizing pipeline closes.
// Watch mode and `validate` use this for fast feedback after edits.
func (uc *ValidateCase) Execute(ctx context.Context, caseName string, scenarioName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cs, err := uc.catalog.LoadCase(caseName)
	if err != nil {
		return err
	}

	scenName := scenarioName
	if scenName == "" {
		scenName = cs.Scenario
	}
	var scenParams domain.Params
	if scenName != "" {
		scen, err := uc.catalog.LoadScenario(scenName)
		if err != nil {
			return err
		}
		scenParams = scen.Params
	}

	v, err := uc.catalog.LoadVehicle(cs.Vehicle)
	if err != nil {
		return err
	}
	m, err := uc.catalog.LoadMission(cs.Mission)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	params := domain.MergeParams(scenParams, cs.Params)
	if err := domain.ApplyParams(&v, params); err != nil {
		return err
	}
	return sizing.Apply(&v, cs.EffectiveSizing())
}

// ValidateWorkspace loads every catalog entry and validates every case with
// its own scenario. First failure wins.
type ValidateWorkspace struct {
	catalog ports.Catalog
}

func NewValidateWorkspace(cat ports.Catalog) *ValidateWorkspace {
	return &ValidateWorkspace{catalog: cat}
}

func (uc *ValidateWorkspace) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, load := range []func() error{
		uc.loadVehicles,
		uc.loadMissions,
		uc.loadScenarios,
		uc.loadStudies,
	} {
		if err := load(); err != nil {
			return err
		}
	}

	refs, err := uc.catalog.ListCases()
	if err != nil {
		return err
	}
	vc := NewValidateCase(uc.catalog)
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vc.Execute(ctx, ref.Path, ""); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ValidateWorkspace) loadVehicles() error {
	refs, err := uc.catalog.ListVehicles()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := uc.catalog.LoadVehicle(ref.Path); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ValidateWorkspace) loadMissions() error {
	refs, err := uc.catalog.ListMissions()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := uc.catalog.LoadMission(ref.Path); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ValidateWorkspace) loadScenarios() error {
	refs, err := uc.catalog.ListScenarios()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := uc.catalog.LoadScenario(ref.Path); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ValidateWorkspace) loadStudies() error {
	refs, err := uc.catalog.ListStudies()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := uc.catalog.LoadStudy(ref.Path); err != nil {
			return err
		}
	}
	return nil
}
