package domain

import (
	"fmt"
	"sort"
)

// Params maps dotted parameter paths (e.g. "mass.battery") to SI values.
// Scenarios, cases and study axes all express overrides this way.
type Params map[string]float64

// MergeParams merges base and override params (override wins), returning a
// new map.
func MergeParams(base Params, override Params) Params {
	out := Params{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

type paramAccessor struct {
	get func(v *Vehicle) float64
	set func(v *Vehicle, x float64)
}

// paramTable enumerates every addressable vehicle parameter. Derived values
// (total mass, pack energy) are intentionally absent: they are computed, not
// set.
var paramTable = map[string]paramAccessor{
	"mass.empty": {
		get: func(v *Vehicle) float64 { return v.Mass.Empty },
		set: func(v *Vehicle, x float64) { v.Mass.Empty = x },
	},
	"mass.battery": {
		get: func(v *Vehicle) float64 { return v.Mass.Battery },
		set: func(v *Vehicle, x float64) { v.Mass.Battery = x },
	},
	"mass.cargo": {
		get: func(v *Vehicle) float64 { return v.Mass.Cargo },
		set: func(v *Vehicle, x float64) { v.Mass.Cargo = x },
	},
	"mass.max_takeoff": {
		get: func(v *Vehicle) float64 { return v.Mass.MaxTakeoff },
		set: func(v *Vehicle, x float64) { v.Mass.MaxTakeoff = x },
	},
	"mass.max_payload": {
		get: func(v *Vehicle) float64 { return v.Mass.MaxPayload },
		set: func(v *Vehicle, x float64) { v.Mass.MaxPayload = x },
	},
	"battery.specific_energy": {
		get: func(v *Vehicle) float64 { return v.Battery.SpecificEnergy },
		set: func(v *Vehicle, x float64) { v.Battery.SpecificEnergy = x },
	},
	"battery.packing_factor": {
		get: func(v *Vehicle) float64 { return v.Battery.PackingFactor },
		set: func(v *Vehicle, x float64) { v.Battery.PackingFactor = x },
	},
	"battery.capacity_fade": {
		get: func(v *Vehicle) float64 { return v.Battery.CapacityFade },
		set: func(v *Vehicle, x float64) { v.Battery.CapacityFade = x },
	},
	"battery.inaccessible_fraction": {
		get: func(v *Vehicle) float64 { return v.Battery.InaccessibleFraction },
		set: func(v *Vehicle, x float64) { v.Battery.InaccessibleFraction = x },
	},
	"battery.reserve_fraction": {
		get: func(v *Vehicle) float64 { return v.Battery.ReserveFraction },
		set: func(v *Vehicle, x float64) { v.Battery.ReserveFraction = x },
	},
	"battery.cruise_fraction": {
		get: func(v *Vehicle) float64 { return v.Battery.CruiseFraction },
		set: func(v *Vehicle, x float64) { v.Battery.CruiseFraction = x },
	},
	"aero.ld_ratio": {
		get: func(v *Vehicle) float64 { return v.Aero.LDRatio },
		set: func(v *Vehicle, x float64) { v.Aero.LDRatio = x },
	},
	"aero.wingspan": {
		get: func(v *Vehicle) float64 { return v.Aero.Wingspan },
		set: func(v *Vehicle, x float64) { v.Aero.Wingspan = x },
	},
	"aero.wing_area": {
		get: func(v *Vehicle) float64 { return v.Aero.WingArea },
		set: func(v *Vehicle, x float64) { v.Aero.WingArea = x },
	},
	"aero.oswald_efficiency": {
		get: func(v *Vehicle) float64 { return v.Aero.OswaldEfficiency },
		set: func(v *Vehicle, x float64) { v.Aero.OswaldEfficiency = x },
	},
	"aero.parasitic_drag": {
		get: func(v *Vehicle) float64 { return v.Aero.ParasiticDrag },
		set: func(v *Vehicle, x float64) { v.Aero.ParasiticDrag = x },
	},
	"propulsion.max_power": {
		get: func(v *Vehicle) float64 { return v.Propulsion.MaxPower },
		set: func(v *Vehicle, x float64) { v.Propulsion.MaxPower = x },
	},
	"propulsion.prop_efficiency": {
		get: func(v *Vehicle) float64 { return v.Propulsion.PropEfficiency },
		set: func(v *Vehicle, x float64) { v.Propulsion.PropEfficiency = x },
	},
	"propulsion.prop_diameter": {
		get: func(v *Vehicle) float64 { return v.Propulsion.PropDiameter },
		set: func(v *Vehicle, x float64) { v.Propulsion.PropDiameter = x },
	},
	"propulsion.drivetrain_efficiency": {
		get: func(v *Vehicle) float64 { return v.Propulsion.DrivetrainEfficiency },
		set: func(v *Vehicle, x float64) { v.Propulsion.DrivetrainEfficiency = x },
	},
	"propulsion.systems_power": {
		get: func(v *Vehicle) float64 { return v.Propulsion.SystemsPower },
		set: func(v *Vehicle, x float64) { v.Propulsion.SystemsPower = x },
	},
	"performance.cruise_speed": {
		get: func(v *Vehicle) float64 { return v.Performance.CruiseSpeed },
		set: func(v *Vehicle, x float64) { v.Performance.CruiseSpeed = x },
	},
	"performance.cruise_altitude": {
		get: func(v *Vehicle) float64 { return v.Performance.CruiseAltitude },
		set: func(v *Vehicle, x float64) { v.Performance.CruiseAltitude = x },
	},
	"performance.climb_rate": {
		get: func(v *Vehicle) float64 { return v.Performance.ClimbRate },
		set: func(v *Vehicle, x float64) { v.Performance.ClimbRate = x },
	},
}

// GetParam reads a vehicle parameter by dotted path.
func GetParam(v *Vehicle, path string) (float64, error) {
	acc, ok := paramTable[path]
	if !ok {
		return 0, unknownParam("params.get", path)
	}
	return acc.get(v), nil
}

// SetParam writes a vehicle parameter by dotted path.
func SetParam(v *Vehicle, path string, value float64) error {
	acc, ok := paramTable[path]
	if !ok {
		return unknownParam("params.set", path)
	}
	acc.set(v, value)
	return nil
}

// HasParam reports whether a dotted path is addressable.
func HasParam(path string) bool {
	_, ok := paramTable[path]
	return ok
}

// ParamPaths returns every addressable path, sorted.
func ParamPaths() []string {
	out := make([]string, 0, len(paramTable))
	for p := range paramTable {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ApplyParams sets every override on the vehicle. Paths are applied in
// sorted order so failures are deterministic.
func ApplyParams(v *Vehicle, params Params) error {
	paths := make([]string, 0, len(params))
	for p := range params {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := SetParam(v, p, params[p]); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(op, path string) error {
	return &OpError{
		Op:   op,
		Kind: KindMissingParam,
		Err:  fmt.Errorf("unknown parameter path: %s", path),
	}
}
