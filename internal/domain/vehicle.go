package domain

import "fmt"

// Gravity is standard gravitational acceleration [m/s^2].
const Gravity = 9.81

// MassProperties groups the vehicle mass breakdown [kg].
// Empty is structure plus systems and excludes the battery.
type MassProperties struct {
	Empty      float64
	Battery    float64
	Cargo      float64
	MaxTakeoff float64
	MaxPayload float64
}

// BatterySpec describes the energy storage system.
type BatterySpec struct {
	SpecificEnergy       float64 // [J/kg], pre-packing
	PackingFactor        float64
	CapacityFade         float64 // end-of-life fraction of total capacity
	InaccessibleFraction float64 // fraction of total capacity
	ReserveFraction      float64 // fraction of useable capacity
	CruiseFraction       float64 // fraction of useable capacity
}

// AeroSpec describes the aerodynamic model. LDRatio serves the zero-order
// range equation; the remaining fields serve the drag-polar analyses.
type AeroSpec struct {
	LDRatio          float64
	Wingspan         float64 // [m]
	WingArea         float64 // [m^2]
	OswaldEfficiency float64
	ParasiticDrag    float64 // CD0 at small angle of attack

	// Derived wing areas, filled by the sizing pipeline.
	WettedArea   float64
	ExposedArea  float64
	AffectedArea float64
}

// PropulsionSpec describes the electric drivetrain.
type PropulsionSpec struct {
	MaxPower             float64 // [W]
	PropEfficiency       float64
	PropDiameter         float64 // [m]
	DrivetrainEfficiency float64
	SystemsPower         float64 // [W] constant avionics/payload draw
}

// PerformanceSpec holds the nominal operating point.
type PerformanceSpec struct {
	CruiseSpeed    float64 // [m/s]
	CruiseAltitude float64 // [m]
	ClimbRate      float64 // [m/s]
}

// Vehicle is an aircraft configuration. All values are SI.
type Vehicle struct {
	Name        string
	Description string

	Mass        MassProperties
	Battery     BatterySpec
	Aero        AeroSpec
	Propulsion  PropulsionSpec
	Performance PerformanceSpec
}

// VehicleRef is a lightweight reference to a vehicle file on disk.
type VehicleRef struct {
	Name        string
	Path        string
	Description string
}

// TotalMass is the flying mass: empty + battery + cargo [kg].
func (v *Vehicle) TotalMass() float64 {
	return v.Mass.Empty + v.Mass.Battery + v.Mass.Cargo
}

// PackEnergy is the installed pack energy at beginning of life [J].
func (v *Vehicle) PackEnergy() float64 {
	return v.Mass.Battery * v.Battery.SpecificEnergy * v.Battery.PackingFactor
}

// AspectRatio is wingspan^2 / wing area.
func (v *Vehicle) AspectRatio() float64 {
	return v.Aero.Wingspan * v.Aero.Wingspan / v.Aero.WingArea
}

// Clone returns an independent copy. Override application and studies must
// never mutate a catalog-loaded vehicle in place.
func (v *Vehicle) Clone() *Vehicle {
	cp := *v
	return &cp
}

// Validate checks field ranges. It reports the first offending field.
func (v *Vehicle) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{v.Name != "", "name is required"},
		{v.Mass.Empty > 0, "mass.empty must be positive"},
		{v.Mass.Battery > 0, "mass.battery must be positive"},
		{v.Mass.Cargo >= 0, "mass.cargo must not be negative"},
		{v.Battery.SpecificEnergy > 0, "battery.specific_energy must be positive"},
		{inUnit(v.Battery.PackingFactor), "battery.packing_factor must be in (0,1]"},
		{inFraction(v.Battery.CapacityFade), "battery.capacity_fade must be in [0,1)"},
		{inFraction(v.Battery.InaccessibleFraction), "battery.inaccessible_fraction must be in [0,1)"},
		{inFraction(v.Battery.ReserveFraction), "battery.reserve_fraction must be in [0,1)"},
		{inFraction(v.Battery.CruiseFraction) || v.Battery.CruiseFraction == 1, "battery.cruise_fraction must be in [0,1]"},
		{v.Aero.Wingspan > 0, "aero.wingspan must be positive"},
		{v.Aero.WingArea > 0, "aero.wing_area must be positive"},
		{inUnit(v.Aero.OswaldEfficiency), "aero.oswald_efficiency must be in (0,1]"},
		{v.Aero.ParasiticDrag > 0, "aero.parasitic_drag must be positive"},
		{v.Propulsion.MaxPower > 0, "propulsion.max_power must be positive"},
		{inUnit(v.Propulsion.PropEfficiency), "propulsion.prop_efficiency must be in (0,1]"},
		{v.Propulsion.PropDiameter > 0, "propulsion.prop_diameter must be positive"},
		{inUnit(v.Propulsion.DrivetrainEfficiency), "propulsion.drivetrain_efficiency must be in (0,1]"},
		{v.Propulsion.SystemsPower >= 0, "propulsion.systems_power must not be negative"},
		{v.Performance.CruiseSpeed > 0, "performance.cruise_speed must be positive"},
		{v.Performance.CruiseAltitude > 0, "performance.cruise_altitude must be positive"},
		{v.Performance.ClimbRate > 0, "performance.climb_rate must be positive"},
	}

	for _, c := range checks {
		if !c.ok {
			return &OpError{
				Op:   "vehicle.validate",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("%s: %s", v.Name, c.msg),
			}
		}
	}
	return nil
}

// CrossCheck verifies mass consistency after sizing: the flying mass may not
// exceed MTOW and cargo may not exceed the payload limit (when one is set).
func (v *Vehicle) CrossCheck() error {
	if v.Mass.MaxTakeoff > 0 && v.TotalMass() > v.Mass.MaxTakeoff+massTolerance {
		return &OpError{
			Op:   "vehicle.crosscheck",
			Kind: KindInvalidConfig,
			Err: fmt.Errorf("%s: total mass %.1f kg exceeds max takeoff %.1f kg",
				v.Name, v.TotalMass(), v.Mass.MaxTakeoff),
		}
	}
	if v.Mass.MaxPayload > 0 && v.Mass.Cargo > v.Mass.MaxPayload+massTolerance {
		return &OpError{
			Op:   "vehicle.crosscheck",
			Kind: KindInvalidConfig,
			Err: fmt.Errorf("%s: cargo %.1f kg exceeds max payload %.1f kg",
				v.Name, v.Mass.Cargo, v.Mass.MaxPayload),
		}
	}
	return nil
}

// massTolerance absorbs float noise from unit conversion in mass checks [kg].
const massTolerance = 1e-6

func inFraction(x float64) bool { return x >= 0 && x < 1 }
func inUnit(x float64) bool     { return x > 0 && x <= 1 }
