// Package sizing closes a vehicle configuration before analysis: derived
// wing areas, the mass budget for the selected sizing mode, and the final
// consistency checks.
package sizing

import (
	"fmt"

	"github.com/project-avie/avie/internal/domain"
)

// Apply runs the sizing pipeline on the vehicle in place.
func Apply(v *domain.Vehicle, mode domain.SizingMode) error {
	simpleSizing(v)
	if err := weights(v, mode); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return v.CrossCheck()
}

// simpleSizing fills the derived wing areas from the reference area.
func simpleSizing(v *domain.Vehicle) {
	v.Aero.WettedArea = 1.75 * v.Aero.WingArea
	v.Aero.ExposedArea = 0.8 * v.Aero.WettedArea
	v.Aero.AffectedArea = 0.6 * v.Aero.WettedArea
}

// weights closes the mass budget. Fixed-battery derives the takeoff mass
// from the load; fixed-mtow converts the remaining mass allowance into
// battery.
func weights(v *domain.Vehicle, mode domain.SizingMode) error {
	switch mode {
	case domain.SizingFixedBattery, "":
		v.Mass.MaxTakeoff = v.Mass.Empty + v.Mass.Battery + v.Mass.Cargo
	case domain.SizingFixedMTOW:
		battery := v.Mass.MaxTakeoff - v.Mass.Empty - v.Mass.Cargo
		if battery <= 0 {
			return &domain.OpError{
				Op:   "sizing.weights",
				Kind: domain.KindInvalidConfig,
				Err: fmt.Errorf("%s: no mass allowance for battery: max takeoff %.1f kg, empty %.1f kg, cargo %.1f kg",
					v.Name, v.Mass.MaxTakeoff, v.Mass.Empty, v.Mass.Cargo),
			}
		}
		v.Mass.Battery = battery
	default:
		return &domain.OpError{
			Op:   "sizing.weights",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%s: unknown sizing mode %q", v.Name, mode),
		}
	}
	return nil
}
