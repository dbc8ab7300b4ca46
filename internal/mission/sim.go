// Package mission integrates flight missions over the atmosphere and drag
// models, tracking battery energy per segment. It also hosts the
// variable-range solver and the payload-range sweep built on top of it.
package mission

import (
	"context"
	"fmt"

	"github.com/project-avie/avie/internal/atmos"
	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/perf"
)

const (
	defaultRangeLo = 3e3   // [m]
	defaultRangeHi = 600e3 // [m]
)

// Result holds the integrated mission outcome.
type Result struct {
	Segments      []domain.SegmentTrace
	TotalTime     float64 // [s]
	TotalDistance float64 // [m]
	InitialEnergy float64 // [J]
	FinalEnergy   float64 // [J]
	FinalSoC      float64
}

// Simulator flies missions with an energy-based point integration.
type Simulator struct {
	controlPoints int
	rangeLo       float64
	rangeHi       float64
}

// Option adjusts simulator behavior.
type Option func(*Simulator)

// WithControlPoints overrides the per-segment sample count of every
// mission this simulator flies.
func WithControlPoints(n int) Option {
	return func(s *Simulator) { s.controlPoints = n }
}

// WithRangeBounds overrides the cruise-distance bracket of the
// variable-range solver [m].
func WithRangeBounds(lo, hi float64) Option {
	return func(s *Simulator) {
		s.rangeLo = lo
		s.rangeHi = hi
	}
}

func New(opts ...Option) *Simulator {
	s := &Simulator{rangeLo: defaultRangeLo, rangeHi: defaultRangeHi}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fly integrates the mission segment by segment. Battery energy starts at
// the installed pack energy and only ever decreases; crossing zero is an
// error naming the segment.
func (s *Simulator) Fly(ctx context.Context, v *domain.Vehicle, m *domain.Mission) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	points := m.Points()
	if s.controlPoints > 0 {
		points = s.controlPoints
	}
	if points < 2 {
		points = domain.DefaultControlPoints
	}

	res := Result{InitialEnergy: v.PackEnergy()}
	energy := res.InitialEnergy
	elapsed, distance := 0.0, 0.0

	for i := range m.Segments {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		tr, err := flySegment(v, &m.Segments[i], points, elapsed, distance, energy, res.InitialEnergy)
		if err != nil {
			return Result{}, err
		}
		last := len(tr.Time) - 1
		elapsed = tr.Time[last]
		distance = tr.Distance[last]
		energy = tr.BatteryEnergy[last]
		res.Segments = append(res.Segments, tr)
	}

	res.TotalTime = elapsed
	res.TotalDistance = distance
	res.FinalEnergy = energy
	res.FinalSoC = energy / res.InitialEnergy
	return res, nil
}

// flySegment samples flight state at uniform times across the segment and
// advances the battery by trapezoidal integration of electric power.
func flySegment(v *domain.Vehicle, seg *domain.Segment, points int,
	startTime, startDistance, startEnergy, packEnergy float64) (domain.SegmentTrace, error) {

	duration := segmentDuration(seg)
	weight := v.TotalMass() * domain.Gravity
	chain := v.Propulsion.PropEfficiency * v.Propulsion.DrivetrainEfficiency

	tr := domain.SegmentTrace{
		Name:          seg.Name,
		Kind:          seg.Kind,
		Reserve:       seg.Reserve,
		Time:          make([]float64, points),
		Altitude:      make([]float64, points),
		Airspeed:      make([]float64, points),
		Density:       make([]float64, points),
		Drag:          make([]float64, points),
		Power:         make([]float64, points),
		BatteryEnergy: make([]float64, points),
		StateOfCharge: make([]float64, points),
		Distance:      make([]float64, points),
	}

	dt := duration / float64(points-1)
	energy := startEnergy

	for j := 0; j < points; j++ {
		t := float64(j) * dt
		alt := altitudeAt(seg, t)

		st, err := atmos.At(alt)
		if err != nil {
			return domain.SegmentTrace{}, &domain.OpError{
				Op:   "mission.fly",
				Kind: domain.KindExecution,
				Err:  fmt.Errorf("segment %q: %w", seg.Name, err),
			}
		}

		q := atmos.DynamicPressure(st.Density, seg.Airspeed)
		drag := perf.Drag(v, q)
		power := thrustFor(seg, weight, drag)*seg.Airspeed/chain + v.Propulsion.SystemsPower

		if j > 0 {
			energy -= 0.5 * (tr.Power[j-1] + power) * dt
			if energy <= 0 {
				return domain.SegmentTrace{}, &domain.OpError{
					Op:   "mission.fly",
					Kind: domain.KindExecution,
					Err:  fmt.Errorf("battery depleted %.0f s into segment %q", t, seg.Name),
				}
			}
		}

		tr.Time[j] = startTime + t
		tr.Altitude[j] = alt
		tr.Airspeed[j] = seg.Airspeed
		tr.Density[j] = st.Density
		tr.Drag[j] = drag
		tr.Power[j] = power
		tr.BatteryEnergy[j] = energy
		tr.StateOfCharge[j] = energy / packEnergy
		tr.Distance[j] = startDistance + seg.Airspeed*t
	}

	tr.Energy = startEnergy - energy
	return tr, nil
}

func segmentDuration(seg *domain.Segment) float64 {
	switch seg.Kind {
	case domain.SegmentClimb:
		return (seg.AltitudeEnd - seg.AltitudeStart) / seg.Rate
	case domain.SegmentDescent:
		return (seg.AltitudeStart - seg.AltitudeEnd) / seg.Rate
	case domain.SegmentCruise:
		return seg.Distance / seg.Airspeed
	default:
		return seg.Duration
	}
}

func altitudeAt(seg *domain.Segment, t float64) float64 {
	switch seg.Kind {
	case domain.SegmentClimb:
		return seg.AltitudeStart + seg.Rate*t
	case domain.SegmentDescent:
		return seg.AltitudeStart - seg.Rate*t
	default:
		return seg.Altitude
	}
}

// thrustFor balances drag plus the climb (or minus the descent) weight
// component along the flight path. Descents never demand negative thrust;
// the motor idles instead.
func thrustFor(seg *domain.Segment, weight, drag float64) float64 {
	switch seg.Kind {
	case domain.SegmentClimb:
		return drag + weight*seg.Rate/seg.Airspeed
	case domain.SegmentDescent:
		thrust := drag - weight*seg.Rate/seg.Airspeed
		if thrust < 0 {
			thrust = 0
		}
		return thrust
	default:
		return drag
	}
}
