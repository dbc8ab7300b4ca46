package mission

import (
	"context"
	"fmt"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/sizing"
)

// DefaultPayloadPoints is the payload sweep resolution.
const DefaultPayloadPoints = 5

// PayloadPoint is one cargo setting of the payload-range diagram.
type PayloadPoint struct {
	Cargo            float64 `json:"cargo_kg"`
	MTOW             float64 `json:"mtow_kg"`
	Range            float64 `json:"range_km"`
	RangeWithReserve float64 `json:"range_with_reserve_km"`
	EnergyUsage      float64 `json:"energy_usage_kwh"`
}

// PayloadRange sweeps cargo from the payload limit down to empty and
// solves the variable-range mission at every point. The vehicle needs a
// positive MaxPayload and the mission a variable-range cruise.
func (s *Simulator) PayloadRange(ctx context.Context, v *domain.Vehicle, m *domain.Mission, points int) ([]PayloadPoint, error) {
	if points < 2 {
		points = DefaultPayloadPoints
	}
	if v.Mass.MaxPayload <= 0 {
		return nil, &domain.OpError{
			Op:   "mission.payloadrange",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%s: max payload is not set", v.Name),
		}
	}
	if m.VariableSegment() < 0 {
		return nil, &domain.OpError{
			Op:   "mission.payloadrange",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("mission %q has no variable-range cruise segment", m.Name),
		}
	}

	out := make([]PayloadPoint, 0, points)
	step := v.Mass.MaxPayload / float64(points-1)
	for i := 0; i < points; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trial := v.Clone()
		trial.Mass.Cargo = v.Mass.MaxPayload - float64(i)*step
		if err := sizing.Apply(trial, domain.SizingFixedBattery); err != nil {
			return nil, err
		}

		res, _, err := s.SolveRange(ctx, trial, m)
		if err != nil {
			return nil, err
		}

		metrics := Summarize(trial, res)
		out = append(out, PayloadPoint{
			Cargo:            trial.Mass.Cargo,
			MTOW:             trial.Mass.MaxTakeoff,
			Range:            metrics["mission_range_km"],
			RangeWithReserve: metrics["range_with_reserve_km"],
			EnergyUsage:      metrics["energy_usage_kwh"],
		})
	}
	return out, nil
}
