package usecase

import (
	"context"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
)

type PayloadRange struct {
	catalog ports.Catalog
	sim     *mission.Simulator
}

func NewPayloadRange(cat ports.Catalog, sim *mission.Simulator) *PayloadRange {
	return &PayloadRange{catalog: cat, sim: sim}
}

// Execute builds the payload-range diagram for a case: cargo sweeps from the
// payload limit down to empty, solving the variable-range mission at every
// point. Scenario and case overrides apply before the sweep; the sweep only
// varies cargo.
func (uc *PayloadRange) Execute(ctx context.Context, caseName, scenarioName string, points int) ([]mission.PayloadPoint, error) {
	cs, err := uc.catalog.LoadCase(caseName)
	if err != nil {
		return nil, err
	}

	scenName := scenarioName
	if scenName == "" {
		scenName = cs.Scenario
	}
	var scenParams domain.Params
	if scenName != "" {
		scen, err := uc.catalog.LoadScenario(scenName)
		if err != nil {
			return nil, err
		}
		scenParams = scen.Params
	}

	v, err := uc.catalog.LoadVehicle(cs.Vehicle)
	if err != nil {
		return nil, err
	}
	m, err := uc.catalog.LoadMission(cs.Mission)
	if err != nil {
		return nil, err
	}

	params := domain.MergeParams(scenParams, cs.Params)
	if err := domain.ApplyParams(&v, params); err != nil {
		return nil, err
	}

	return uc.sim.PayloadRange(ctx, &v, &m, points)
}
