package perf

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/project-avie/avie/internal/atmos"
	"github.com/project-avie/avie/internal/domain"
)

const mph = 0.44704 // [m/s]

// Flight conditions after Mattingly's master-equation cases. Stall and
// climb keep the original study's parasitic-drag term, which divides by
// dynamic pressure once more than the cruise cases do.
type twCondition struct {
	altitude      float64 // [m]
	airspeed      float64 // [m/s]
	beta          float64 // weight fraction
	cd0           float64
	perQ          bool    // parasitic term uses CD0/q instead of q*CD0
	verticalSpeed float64 // [m/s] climb only
}

var (
	cruiseCondition    = twCondition{altitude: 7620, airspeed: 190 * mph, beta: 1, cd0: 0.015}
	maxCruiseCondition = twCondition{altitude: 7620, airspeed: 214 * mph, beta: 0.98, cd0: 0.019}
	stallCondition     = twCondition{altitude: 0, airspeed: 70.2 * mph, beta: 1, cd0: 0.03, perQ: true}
	climbCondition     = twCondition{altitude: 0, airspeed: 150 * mph, beta: 1, cd0: 0.017, perQ: true, verticalSpeed: 14.023 * mph}
)

const (
	landingSpeed = 120 * mph
	landingCLMax = 2.5
)

// ConstraintPoint is one wing-loading sample of the diagram. Thrust-to-
// weight values are dimensionless; wing loading is reported in kg/m^2.
type ConstraintPoint struct {
	WingLoading float64 `json:"wing_loading_kgm2"`
	Cruise      float64 `json:"cruise"`
	MaxCruise   float64 `json:"max_cruise"`
	Stall       float64 `json:"stall"`
	Climb       float64 `json:"climb"`
}

// ConstraintResult is the evaluated constraint diagram.
type ConstraintResult struct {
	Points []ConstraintPoint `json:"points"`
	// LandingWingLoading is the vertical landing-distance bound. [kg/m^2]
	LandingWingLoading float64 `json:"landing_wing_loading_kgm2"`
	// DesignWingLoading is the vehicle's own wing loading. [kg/m^2]
	DesignWingLoading float64 `json:"design_wing_loading_kgm2"`
}

// ConstraintOption adjusts the wing-loading sweep.
type ConstraintOption func(*constraintOptions)

type constraintOptions struct {
	from, to float64
	points   int
	oswald   float64
}

// WithSweep overrides the wing-loading sweep bounds [N/m^2] and sample count.
func WithSweep(from, to float64, points int) ConstraintOption {
	return func(o *constraintOptions) {
		o.from = from
		o.to = to
		o.points = points
	}
}

// WithPoints overrides the sample count, keeping the default sweep bounds.
func WithPoints(points int) ConstraintOption {
	return func(o *constraintOptions) { o.points = points }
}

// WithOswald overrides the span efficiency of the drag polar.
func WithOswald(e float64) ConstraintOption {
	return func(o *constraintOptions) { o.oswald = e }
}

// ConstraintDiagram evaluates thrust-to-weight requirements over a wing
// loading sweep for cruise, max cruise, stall and climb conditions, plus
// the landing wing-loading bound. The drag polar uses the vehicle's
// aspect ratio with a study-level span efficiency (default 0.85).
func ConstraintDiagram(v *domain.Vehicle, opts ...ConstraintOption) ConstraintResult {
	o := constraintOptions{from: 10, to: 6000, points: 40, oswald: 0.85}
	for _, opt := range opts {
		opt(&o)
	}

	k1 := 1 / (math.Pi * v.AspectRatio() * o.oswald)
	const k2 = 0.0 // linear polar coefficient

	res := ConstraintResult{
		Points:            make([]ConstraintPoint, o.points),
		DesignWingLoading: v.TotalMass() / v.Aero.WingArea,
	}

	ground, _ := atmos.At(0)
	res.LandingWingLoading = landingSpeed * landingSpeed / 2 * ground.Density * landingCLMax / domain.Gravity

	cruise := newCurve(cruiseCondition)
	maxCruise := newCurve(maxCruiseCondition)
	stall := newCurve(stallCondition)
	climb := newCurve(climbCondition)

	sweep := make([]float64, o.points)
	if o.points == 1 {
		sweep[0] = o.from
	} else {
		floats.Span(sweep, o.from, o.to)
	}
	for i, ws := range sweep {
		res.Points[i] = ConstraintPoint{
			WingLoading: ws / domain.Gravity,
			Cruise:      cruise.at(ws, k1, k2),
			MaxCruise:   maxCruise.at(ws, k1, k2),
			Stall:       stall.at(ws, k1, k2),
			Climb:       climb.at(ws, k1, k2),
		}
	}
	return res
}

// twCurve caches the atmospheric terms of one flight condition.
type twCurve struct {
	cond  twCondition
	alpha float64
	q     float64
}

func newCurve(c twCondition) twCurve {
	// Condition altitudes sit well below the atmosphere ceiling.
	st, _ := atmos.At(c.altitude)
	return twCurve{
		cond:  c,
		alpha: atmos.ThrustLapse(st, c.airspeed),
		q:     atmos.DynamicPressure(st.Density, c.airspeed),
	}
}

func (cv twCurve) at(ws, k1, k2 float64) float64 {
	c := cv.cond
	const n = 1.0 // load factor

	tw := (k1*(n*c.beta)*(n*c.beta))/(cv.alpha*cv.q)*ws + c.beta*k2*n/cv.alpha
	if c.perQ {
		tw += cv.q / (cv.alpha * ws) * (c.cd0 / cv.q)
	} else {
		tw += cv.q / (cv.alpha * ws) * c.cd0
	}
	if c.verticalSpeed > 0 {
		tw += (c.beta / cv.alpha) * (c.verticalSpeed / c.airspeed)
	}
	return tw
}
