package mission

import (
	"context"
	"fmt"
	"math"

	"github.com/project-avie/avie/internal/domain"
)

const (
	socTolerance        = 1e-6
	distanceTolerance   = 1.0 // [m]
	maxBisectIterations = 200
)

// SolveRange finds the variable-range cruise distance at which the mission
// ends exactly at its target state of charge, and returns the converged
// flight. Final state of charge falls strictly with cruise distance, so the
// solver bisects the configured bracket; a flight that depletes the battery
// counts as below target.
func (s *Simulator) SolveRange(ctx context.Context, v *domain.Vehicle, m *domain.Mission) (Result, float64, error) {
	idx := m.VariableSegment()
	if idx < 0 {
		return Result{}, 0, &domain.OpError{
			Op:   "mission.solverange",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("mission %q has no variable-range cruise segment", m.Name),
		}
	}
	target := m.TargetStateOfCharge

	trial := *m
	trial.Segments = append([]domain.Segment(nil), m.Segments...)

	fly := func(distance float64) (Result, float64, error) {
		trial.Segments[idx].Distance = distance
		res, err := s.Fly(ctx, v, &trial)
		if err != nil {
			return Result{}, -1, err
		}
		return res, res.FinalSoC, nil
	}

	lo, hi := s.rangeLo, s.rangeHi

	// The lower bound must fly cleanly; any failure there is a real error.
	_, socLo, err := fly(lo)
	if err != nil {
		return Result{}, 0, err
	}
	if socLo < target {
		return Result{}, 0, bracketError(m.Name, lo, socLo, target, "shortest")
	}

	_, socHi, err := fly(hi)
	if err != nil && ctx.Err() != nil {
		return Result{}, 0, ctx.Err()
	}
	if err == nil && socHi > target {
		return Result{}, 0, bracketError(m.Name, hi, socHi, target, "longest")
	}

	for iter := 0; iter < maxBisectIterations; iter++ {
		mid := 0.5 * (lo + hi)
		res, soc, err := fly(mid)
		if err != nil && ctx.Err() != nil {
			return Result{}, 0, ctx.Err()
		}
		if err == nil && math.Abs(soc-target) <= socTolerance {
			return res, mid, nil
		}
		if soc > target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= distanceTolerance {
			// Interval convergence: the lower bound is the surviving
			// feasible distance.
			res, _, err := fly(lo)
			return res, lo, err
		}
	}

	return Result{}, 0, &domain.OpError{
		Op:   "mission.solverange",
		Kind: domain.KindExecution,
		Err:  fmt.Errorf("mission %q: range solve did not converge in %d iterations", m.Name, maxBisectIterations),
	}
}

func bracketError(name string, distance, soc, target float64, which string) error {
	return &domain.OpError{
		Op:   "mission.solverange",
		Kind: domain.KindExecution,
		Err: fmt.Errorf("mission %q: %s cruise (%.0f km) ends at state of charge %.4f, target %.4f is out of reach",
			name, which, distance/1000, soc, target),
	}
}
