// Package perf holds the quick engineering analyses: the electric range
// equation, the first-order flight range estimate and the constraint
// diagram. These are steady-state approximations; the mission simulator
// is the detailed model.
package perf

import (
	"github.com/project-avie/avie/internal/domain"
)

// RangeBreakdown is the energy chain of the electric range equation.
type RangeBreakdown struct {
	BatteryMassFraction float64 `json:"battery_mass_fraction"`
	TotalEnergy         float64 `json:"total_energy_j"` // installed, after fade when end of life
	UseableEnergy       float64 `json:"useable_energy_j"`
	ReserveEnergy       float64 `json:"reserve_energy_j"`
	CruiseEnergy        float64 `json:"cruise_energy_j"`
	CruiseRange         float64 `json:"cruise_range_m"`
}

// RangeEquation evaluates the electric range equation for the vehicle.
// The chain walks installed energy down to the cruise allocation and
// converts it to distance through L/D and the drivetrain efficiency.
// With endOfLife set, installed capacity is reduced by the battery's
// capacity fade first.
func RangeEquation(v *domain.Vehicle, endOfLife bool) RangeBreakdown {
	total := v.PackEnergy()
	if endOfLife {
		total *= 1 - v.Battery.CapacityFade
	}
	useable := total * (1 - v.Battery.InaccessibleFraction)

	b := RangeBreakdown{
		BatteryMassFraction: v.Mass.Battery / v.TotalMass(),
		TotalEnergy:         total,
		UseableEnergy:       useable,
		ReserveEnergy:       useable * v.Battery.ReserveFraction,
		CruiseEnergy:        useable * v.Battery.CruiseFraction,
	}
	b.CruiseRange = v.Propulsion.DrivetrainEfficiency * v.Aero.LDRatio *
		b.CruiseEnergy / (domain.Gravity * v.TotalMass())
	return b
}
