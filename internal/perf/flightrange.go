package perf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/project-avie/avie/internal/atmos"
	"github.com/project-avie/avie/internal/domain"
)

// FlightResult is the phase breakdown of the first-order range estimate.
type FlightResult struct {
	TakeoffSpeed  float64 `json:"takeoff_speed_ms"`
	TakeoffEnergy float64 `json:"takeoff_energy_j"`
	ClimbEnergy   float64 `json:"climb_energy_j"`
	CruisePower   float64 `json:"cruise_power_w"`
	StoredEnergy  float64 `json:"stored_energy_j"` // budget after reserve and inaccessible cuts
	CruiseEnergy  float64 `json:"cruise_energy_j"` // left for cruise after takeoff and climb
	Range         float64 `json:"range_m"`
}

const climbQuadraturePoints = 40

// FlightRange estimates range with explicit takeoff and climb phases.
// Takeoff burns max power for the time static thrust needs to reach
// takeoff speed; climb integrates drag power along a linear speed ramp
// from takeoff to cruise speed; whatever energy is left converts to
// distance at the cruise drag power.
func FlightRange(v *domain.Vehicle) (FlightResult, error) {
	cruiseAtmos, err := atmos.At(v.Performance.CruiseAltitude)
	if err != nil {
		return FlightResult{}, err
	}

	stored := v.PackEnergy() * (1 - v.Battery.InaccessibleFraction) * (1 - v.Battery.ReserveFraction)

	r := FlightResult{StoredEnergy: stored}
	r.TakeoffSpeed = takeoffSpeed(v)
	r.TakeoffEnergy = takeoffEnergy(v, r.TakeoffSpeed)

	remaining := stored - r.TakeoffEnergy
	if remaining <= 0 {
		return FlightResult{}, flightRangeError("takeoff", r.TakeoffEnergy, stored)
	}

	r.ClimbEnergy = climbEnergy(v, r.TakeoffSpeed)
	remaining -= r.ClimbEnergy
	if remaining <= 0 {
		return FlightResult{}, flightRangeError("climb", r.ClimbEnergy, stored-r.TakeoffEnergy)
	}

	r.CruiseEnergy = remaining
	r.CruisePower = cruisePower(v, cruiseAtmos)
	r.Range = v.Performance.CruiseSpeed * remaining / r.CruisePower
	return r, nil
}

func flightRangeError(phase string, used, budget float64) error {
	return &domain.OpError{
		Op:   "perf.flightrange",
		Kind: domain.KindExecution,
		Err:  fmt.Errorf("%s needs %.0f J but only %.0f J remain", phase, used, budget),
	}
}

// groundDensity evaluates the atmosphere just above the runway.
func groundDensity() float64 {
	st, _ := atmos.At(1)
	return st.Density
}

// InducedDragCoefficient evaluates the drag polar at the lift coefficient
// required to carry the vehicle's weight at dynamic pressure q.
func InducedDragCoefficient(v *domain.Vehicle, q float64) float64 {
	cl := v.TotalMass() * domain.Gravity / (q * v.Aero.WingArea)
	return cl * cl / (math.Pi * v.AspectRatio() * v.Aero.OswaldEfficiency)
}

// Drag is the total aerodynamic drag in level lift at dynamic pressure q.
func Drag(v *domain.Vehicle, q float64) float64 {
	return (v.Aero.ParasiticDrag + InducedDragCoefficient(v, q)) * v.Aero.WingArea * q
}

// takeoffSpeed derives the liftoff speed from a thin-airfoil lift estimate
// at 15 degrees angle of attack with a finite-wing correction.
func takeoffSpeed(v *domain.Vehicle) float64 {
	cl0 := 2 * math.Pi * (15 * math.Pi / 180)
	cl := cl0 / (1 + cl0/(math.Pi*v.Aero.OswaldEfficiency*v.AspectRatio()))
	return math.Sqrt(v.TotalMass() * domain.Gravity / (0.5 * groundDensity() * cl * v.Aero.WingArea))
}

// takeoffEnergy assumes max power against momentum-theory static thrust,
// which is only valid at very low freestream speed.
func takeoffEnergy(v *domain.Vehicle, takeoffSpeed float64) float64 {
	pd := v.Propulsion.MaxPower * v.Propulsion.PropEfficiency * v.Propulsion.PropDiameter
	thrust := math.Cbrt(0.5 * groundDensity() * math.Pi * pd * pd)
	takeoffTime := takeoffSpeed * v.TotalMass() / thrust
	return takeoffTime * v.Propulsion.MaxPower
}

// climbEnergy integrates thrust power over a constant-rate climb to cruise
// altitude with speed ramping linearly from takeoff to cruise speed.
func climbEnergy(v *domain.Vehicle, takeoffSpeed float64) float64 {
	climbTime := v.Performance.CruiseAltitude / v.Performance.ClimbRate
	weight := v.TotalMass() * domain.Gravity

	power := func(t float64) float64 {
		speed := v.Performance.CruiseSpeed/climbTime*t + takeoffSpeed
		// Altitude stays within the validated cruise altitude.
		st, _ := atmos.At(v.Performance.ClimbRate * t)
		q := atmos.DynamicPressure(st.Density, speed)
		thrust := Drag(v, q) + weight*v.Performance.ClimbRate/speed
		return thrust * speed
	}
	return quad.Fixed(power, 0, climbTime, climbQuadraturePoints, nil, 0)
}

func cruisePower(v *domain.Vehicle, st atmos.State) float64 {
	q := atmos.DynamicPressure(st.Density, v.Performance.CruiseSpeed)
	return Drag(v, q) * v.Performance.CruiseSpeed
}
