package usecase

import (
	"context"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/opt"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/sizing"
)

// Optimize runs the design optimizers over a configured case. Both searches
// start from the case's vehicle with scenario and case params applied, so a
// scenario can shift the whole problem (a different cell chemistry, say)
// without editing the case.
type Optimize struct {
	catalog ports.Catalog
	sim     *mission.Simulator
}

func NewOptimize(cat ports.Catalog, sim *mission.Simulator) *Optimize {
	return &Optimize{catalog: cat, sim: sim}
}

// Battery sizes the pack for minimum mission energy subject to the charge
// floor. Each trial re-closes the mass budget itself, so the configured
// vehicle is handed over unsized.
func (uc *Optimize) Battery(ctx context.Context, caseName, scenarioName string, opts opt.BatteryOptions) (opt.BatteryResult, error) {
	v, m, _, err := uc.configured(caseName, scenarioName)
	if err != nil {
		return opt.BatteryResult{}, err
	}
	return opt.OptimizeBattery(ctx, uc.sim, &v, &m, opts)
}

// MaxRange stretches the case's variable cruise until the battery lands at
// the floor. Unlike Battery this flies a fixed design, so sizing runs once
// up front in the case's mode.
func (uc *Optimize) MaxRange(ctx context.Context, caseName, scenarioName string, floor float64) (opt.CruiseResult, error) {
	v, m, cs, err := uc.configured(caseName, scenarioName)
	if err != nil {
		return opt.CruiseResult{}, err
	}
	if err := sizing.Apply(&v, cs.EffectiveSizing()); err != nil {
		return opt.CruiseResult{}, err
	}
	return opt.MaxRangeCruise(ctx, uc.sim, &v, &m, opt.CruiseOptions{Floor: floor})
}

func (uc *Optimize) configured(caseName, scenarioName string) (domain.Vehicle, domain.Mission, domain.Case, error) {
	var zeroV domain.Vehicle
	var zeroM domain.Mission

	cs, err := uc.catalog.LoadCase(caseName)
	if err != nil {
		return zeroV, zeroM, domain.Case{}, err
	}

	scenName := scenarioName
	if scenName == "" {
		scenName = cs.Scenario
	}
	var scenParams domain.Params
	if scenName != "" {
		scen, err := uc.catalog.LoadScenario(scenName)
		if err != nil {
			return zeroV, zeroM, cs, err
		}
		scenParams = scen.Params
	}

	v, err := uc.catalog.LoadVehicle(cs.Vehicle)
	if err != nil {
		return zeroV, zeroM, cs, err
	}
	m, err := uc.catalog.LoadMission(cs.Mission)
	if err != nil {
		return zeroV, zeroM, cs, err
	}

	params := domain.MergeParams(scenParams, cs.Params)
	if err := domain.ApplyParams(&v, params); err != nil {
		return zeroV, zeroM, cs, err
	}
	return v, m, cs, nil
}
