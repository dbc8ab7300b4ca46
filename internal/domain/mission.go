package domain

import "fmt"

// SegmentKind identifies the flight segment type.
type SegmentKind string

const (
	SegmentClimb   SegmentKind = "climb"
	SegmentCruise  SegmentKind = "cruise"
	SegmentHold    SegmentKind = "hold"
	SegmentDescent SegmentKind = "descent"
)

// DefaultControlPoints is the per-segment sample count used when a mission
// does not set its own.
const DefaultControlPoints = 4

// Segment is one leg of a mission profile. Fields are kind-dependent:
//
//	climb/descent: AltitudeStart, AltitudeEnd, Airspeed, Rate
//	cruise:        Altitude, Airspeed, Distance
//	hold:          Altitude, Airspeed, Duration
//
// Rate is a positive magnitude for both climb and descent; the kind carries
// the sign. A hold with Reserve set marks loiter energy that mission
// summaries exclude from block range and usage.
type Segment struct {
	Name string
	Kind SegmentKind

	AltitudeStart float64 // [m]
	AltitudeEnd   float64 // [m]
	Altitude      float64 // [m]
	Airspeed      float64 // [m/s]
	Rate          float64 // [m/s] climb or descent rate magnitude
	Distance      float64 // [m]
	Duration      float64 // [s]

	// VariableRange marks the cruise whose distance the range solver may
	// adjust to hit the mission's target state of charge.
	VariableRange bool
	Reserve       bool
}

// StartAltitude is the altitude at which the segment begins.
func (s *Segment) StartAltitude() float64 {
	switch s.Kind {
	case SegmentClimb, SegmentDescent:
		return s.AltitudeStart
	default:
		return s.Altitude
	}
}

// EndAltitude is the altitude at which the segment ends.
func (s *Segment) EndAltitude() float64 {
	switch s.Kind {
	case SegmentClimb, SegmentDescent:
		return s.AltitudeEnd
	default:
		return s.Altitude
	}
}

// Mission is an ordered sequence of flight segments.
type Mission struct {
	Name        string
	Description string

	// ControlPoints is the per-segment sample count; zero means
	// DefaultControlPoints.
	ControlPoints int

	// TargetStateOfCharge is the final state of charge the range solver
	// aims for. Zero disables solving; required when a segment is marked
	// VariableRange.
	TargetStateOfCharge float64

	Segments []Segment
}

// MissionRef is a lightweight reference to a mission file on disk.
type MissionRef struct {
	Name        string
	Path        string
	Description string
}

// VariableSegment returns the index of the variable-range cruise, or -1.
func (m *Mission) VariableSegment() int {
	for i := range m.Segments {
		if m.Segments[i].VariableRange {
			return i
		}
	}
	return -1
}

// Points returns the effective per-segment control point count.
func (m *Mission) Points() int {
	if m.ControlPoints > 0 {
		return m.ControlPoints
	}
	return DefaultControlPoints
}

// Validate checks segment fields and profile continuity.
func (m *Mission) Validate() error {
	if m.Name == "" {
		return invalidMission("", "name is required")
	}
	if len(m.Segments) == 0 {
		return invalidMission(m.Name, "at least one segment is required")
	}
	if m.ControlPoints < 0 || m.ControlPoints == 1 {
		return invalidMission(m.Name, "control_points must be 0 or at least 2")
	}

	seen := map[string]bool{}
	variable := 0
	for i := range m.Segments {
		s := &m.Segments[i]
		if s.Name == "" {
			return invalidMission(m.Name, fmt.Sprintf("segment %d: name is required", i))
		}
		if seen[s.Name] {
			return invalidMission(m.Name, fmt.Sprintf("duplicate segment name %q", s.Name))
		}
		seen[s.Name] = true

		if err := validateSegment(s); err != nil {
			return invalidMission(m.Name, fmt.Sprintf("segment %q: %v", s.Name, err))
		}

		if s.VariableRange {
			variable++
			if s.Kind != SegmentCruise {
				return invalidMission(m.Name, fmt.Sprintf("segment %q: variable_range requires a cruise segment", s.Name))
			}
		}

		if i > 0 {
			prev := &m.Segments[i-1]
			if !closeEnough(s.StartAltitude(), prev.EndAltitude()) {
				return invalidMission(m.Name, fmt.Sprintf(
					"segment %q starts at %.0f m but %q ends at %.0f m",
					s.Name, s.StartAltitude(), prev.Name, prev.EndAltitude()))
			}
		}
	}

	if variable > 1 {
		return invalidMission(m.Name, "at most one segment may set variable_range")
	}
	if variable == 1 && (m.TargetStateOfCharge <= 0 || m.TargetStateOfCharge >= 1) {
		return invalidMission(m.Name, "target_state_of_charge must be in (0,1) for variable-range missions")
	}
	if variable == 0 && m.TargetStateOfCharge != 0 {
		return invalidMission(m.Name, "target_state_of_charge requires a variable_range cruise segment")
	}

	return nil
}

func validateSegment(s *Segment) error {
	if s.Airspeed <= 0 {
		return fmt.Errorf("airspeed must be positive")
	}

	switch s.Kind {
	case SegmentClimb:
		if s.AltitudeEnd <= s.AltitudeStart {
			return fmt.Errorf("altitude_end must exceed altitude_start")
		}
		if s.Rate <= 0 {
			return fmt.Errorf("climb_rate must be positive")
		}
	case SegmentDescent:
		if s.AltitudeEnd >= s.AltitudeStart {
			return fmt.Errorf("altitude_end must be below altitude_start")
		}
		if s.Rate <= 0 {
			return fmt.Errorf("descent_rate must be positive")
		}
	case SegmentCruise:
		if s.Altitude < 0 {
			return fmt.Errorf("altitude must not be negative")
		}
		if s.Distance <= 0 {
			return fmt.Errorf("distance must be positive")
		}
	case SegmentHold:
		if s.Altitude < 0 {
			return fmt.Errorf("altitude must not be negative")
		}
		if s.Duration <= 0 {
			return fmt.Errorf("duration must be positive")
		}
	default:
		return fmt.Errorf("unknown segment kind %q", s.Kind)
	}
	return nil
}

func invalidMission(name, msg string) error {
	if name != "" {
		msg = name + ": " + msg
	}
	return &OpError{
		Op:   "mission.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%s", msg),
	}
}

// closeEnough compares altitudes with a 0.5 m slack so hand-written profiles
// do not fail continuity on rounding.
func closeEnough(a, b float64) bool {
	d := a - b
	return d < 0.5 && d > -0.5
}
