// Package opt hosts the design optimizers built on the mission simulator:
// battery mass sizing against an energy objective, and the stretched-cruise
// search behind the range tradeoff studies.
package opt

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/sizing"
)

// Battery mass problem defaults, from the reference sizing study.
const (
	DefaultInitialMass = 1900 // [kg]
	DefaultLowerBound  = 1000 // [kg]
	DefaultUpperBound  = 2300 // [kg]
	DefaultSoCFloor    = 0.30
	DefaultScale       = 1e8 // [J]
	DefaultPenalty     = 1e4
	DefaultMaxIter     = 200

	// failedObjective keeps the simplex finite when a trial flight cannot
	// finish the mission.
	failedObjective = 1e6
)

// BatteryOptions override the reference problem. Zero fields keep defaults.
type BatteryOptions struct {
	Initial float64 // starting battery mass [kg]
	Lo      float64 // lower bound [kg]
	Hi      float64 // upper bound [kg]
	Floor   float64 // minimum final state of charge
	Scale   float64 // objective scaling divisor [J]
	Penalty float64 // constraint penalty weight
	MaxIter int
}

func (o BatteryOptions) withDefaults() BatteryOptions {
	if o.Initial == 0 {
		o.Initial = DefaultInitialMass
	}
	if o.Lo == 0 {
		o.Lo = DefaultLowerBound
	}
	if o.Hi == 0 {
		o.Hi = DefaultUpperBound
	}
	if o.Floor == 0 {
		o.Floor = DefaultSoCFloor
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Penalty == 0 {
		o.Penalty = DefaultPenalty
	}
	if o.MaxIter == 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

// BatteryResult is the sized battery and the mission it flies.
type BatteryResult struct {
	BatteryMass      float64 `json:"battery_mass_kg"`
	TakeoffMass      float64 `json:"takeoff_mass_kg"`
	EnergyUsageKWh   float64 `json:"energy_usage_kwh"`
	BatteryRemaining float64 `json:"battery_remaining"`
	RangeKm          float64 `json:"range_km"`
	Iterations       int     `json:"iterations"`
	Converged        bool    `json:"converged"`
}

// OptimizeBattery minimizes mission energy usage over battery mass while
// keeping the final state of charge above the floor. The constraint enters
// as a quadratic penalty and the bounds by reflecting trial points back into
// range, so the derivative-free simplex never leaves the problem box. The
// mission is flown as configured; each trial re-closes the mass budget with
// fixed-battery sizing.
func OptimizeBattery(ctx context.Context, sim *mission.Simulator, v *domain.Vehicle, m *domain.Mission, opts BatteryOptions) (BatteryResult, error) {
	o := opts.withDefaults()
	if o.Hi <= o.Lo {
		return BatteryResult{}, &domain.OpError{
			Op:   "opt.battery",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("bounds [%g, %g] are empty", o.Lo, o.Hi),
		}
	}
	start := math.Min(math.Max(o.Initial, o.Lo), o.Hi)

	fly := func(batteryMass float64) (mission.Result, domain.Vehicle, error) {
		trial := *v
		trial.Mass.Battery = batteryMass
		if err := sizing.Apply(&trial, domain.SizingFixedBattery); err != nil {
			return mission.Result{}, trial, err
		}
		res, err := sim.Fly(ctx, &trial, m)
		return res, trial, err
	}

	objective := func(x []float64) float64 {
		if ctx.Err() != nil {
			return failedObjective
		}
		massKg := reflectIntoBounds(x[0], o.Lo, o.Hi)
		res, _, err := fly(massKg)
		if err != nil {
			return failedObjective
		}
		obj := usageJoules(res) / o.Scale
		if res.FinalSoC < o.Floor {
			d := o.Floor - res.FinalSoC
			obj += o.Penalty * d * d
		}
		return obj
	}

	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{MajorIterations: o.MaxIter}

	result, minErr := optimize.Minimize(problem, []float64{start}, settings, &optimize.NelderMead{})
	if err := ctx.Err(); err != nil {
		return BatteryResult{}, err
	}
	if result == nil || len(result.X) == 0 {
		return BatteryResult{}, &domain.OpError{
			Op:   "opt.battery",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("battery mass search failed: %v", minErr),
		}
	}

	best := reflectIntoBounds(result.X[0], o.Lo, o.Hi)
	res, trial, err := fly(best)
	if err != nil {
		return BatteryResult{}, err
	}

	summary := mission.Summarize(&trial, res)
	return BatteryResult{
		BatteryMass:      best,
		TakeoffMass:      trial.TotalMass(),
		EnergyUsageKWh:   summary["energy_usage_kwh"],
		BatteryRemaining: summary["battery_remaining"],
		RangeKm:          summary["mission_range_km"],
		Iterations:       result.Stats.MajorIterations,
		Converged:        minErr == nil && convergedStatus(result.Status),
	}, nil
}

func convergedStatus(s optimize.Status) bool {
	switch s {
	case optimize.Success,
		optimize.FunctionConvergence,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// reflectIntoBounds folds any real trial point into [lo, hi] as a triangle
// wave with period 2(hi-lo). Identity inside the bounds, mirror just
// outside, so the objective stays continuous where the simplex crosses.
func reflectIntoBounds(x, lo, hi float64) float64 {
	span := hi - lo
	t := math.Mod(x-lo, 2*span)
	if t < 0 {
		t += 2 * span
	}
	if t > span {
		t = 2*span - t
	}
	return lo + t
}

// usageJoules carves reserve segments out of the consumed energy, matching
// the summary's energy_usage metric but in raw joules for the objective.
func usageJoules(res mission.Result) float64 {
	var reserve float64
	for _, tr := range res.Segments {
		if tr.Reserve {
			reserve += tr.Energy
		}
	}
	return res.InitialEnergy - res.FinalEnergy - reserve
}
