package opt

import (
	"context"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
)

// DefaultCruiseFloor is the end-of-mission charge the stretched cruise may
// draw down to.
const DefaultCruiseFloor = 0.10

// CruiseOptions tune the maximum-range search.
type CruiseOptions struct {
	// Floor is the minimum final state of charge; zero means
	// DefaultCruiseFloor.
	Floor float64
}

// CruiseResult is the longest feasible flight of the mission profile.
type CruiseResult struct {
	CruiseKm           float64 `json:"cruise_km"`
	RangeKm            float64 `json:"range_km"`
	RangeWithReserveKm float64 `json:"range_with_reserve_km"`
	BatteryRemaining   float64 `json:"battery_remaining"`
	TimeMin            float64 `json:"time_min"`
}

// MaxRangeCruise stretches the variable cruise segment until the battery
// lands at the floor, answering "how far can this vehicle fly" for the
// range tradeoff studies. The vehicle is flown as given; size it first.
func MaxRangeCruise(ctx context.Context, sim *mission.Simulator, v *domain.Vehicle, m *domain.Mission, opts CruiseOptions) (CruiseResult, error) {
	floor := opts.Floor
	if floor <= 0 {
		floor = DefaultCruiseFloor
	}

	trial := *m
	trial.Segments = append([]domain.Segment(nil), m.Segments...)
	trial.TargetStateOfCharge = floor

	res, distance, err := sim.SolveRange(ctx, v, &trial)
	if err != nil {
		return CruiseResult{}, err
	}

	summary := mission.Summarize(v, res)
	return CruiseResult{
		CruiseKm:           distance / 1000,
		RangeKm:            summary["mission_range_km"],
		RangeWithReserveKm: summary["range_with_reserve_km"],
		BatteryRemaining:   summary["battery_remaining"],
		TimeMin:            summary["mission_time_min"],
	}, nil
}
