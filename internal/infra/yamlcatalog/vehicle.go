package yamlcatalog

import (
	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/units"
)

type yamlVehicle struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Mass struct {
		Empty      units.Quantity `yaml:"empty"`
		Battery    units.Quantity `yaml:"battery"`
		Cargo      units.Quantity `yaml:"cargo"`
		MaxTakeoff units.Quantity `yaml:"max_takeoff"`
		MaxPayload units.Quantity `yaml:"max_payload"`
	} `yaml:"mass"`

	Battery struct {
		SpecificEnergy       units.Quantity `yaml:"specific_energy"`
		PackingFactor        float64        `yaml:"packing_factor"`
		CapacityFade         float64        `yaml:"capacity_fade"`
		InaccessibleFraction float64        `yaml:"inaccessible_fraction"`
		ReserveFraction      float64        `yaml:"reserve_fraction"`
		CruiseFraction       float64        `yaml:"cruise_fraction"`
	} `yaml:"battery"`

	Aero struct {
		LDRatio          float64        `yaml:"ld_ratio"`
		Wingspan         units.Quantity `yaml:"wingspan"`
		WingArea         units.Quantity `yaml:"wing_area"`
		OswaldEfficiency float64        `yaml:"oswald_efficiency"`
		ParasiticDrag    float64        `yaml:"parasitic_drag"`
	} `yaml:"aero"`

	Propulsion struct {
		MaxPower             units.Quantity `yaml:"max_power"`
		PropEfficiency       float64        `yaml:"prop_efficiency"`
		PropDiameter         units.Quantity `yaml:"prop_diameter"`
		DrivetrainEfficiency float64        `yaml:"drivetrain_efficiency"`
		SystemsPower         units.Quantity `yaml:"systems_power"`
	} `yaml:"propulsion"`

	Performance struct {
		CruiseSpeed    units.Quantity `yaml:"cruise_speed"`
		CruiseAltitude units.Quantity `yaml:"cruise_altitude"`
		ClimbRate      units.Quantity `yaml:"climb_rate"`
	} `yaml:"performance"`
}

// LoadVehicle accepts either a catalog name (e.g., "c208b-electric") or a
// path to a YAML file.
func (c *Catalog) LoadVehicle(nameOrPath string) (domain.Vehicle, error) {
	const op = "yamlcatalog.load_vehicle"

	path, err := c.resolve(op, c.paths.VehiclesDir, nameOrPath)
	if err != nil {
		return domain.Vehicle{}, err
	}

	var y yamlVehicle
	if err := readYAML(op, path, &y); err != nil {
		return domain.Vehicle{}, err
	}

	v := mapVehicle(y)
	if err := v.Validate(); err != nil {
		return domain.Vehicle{}, err
	}
	return v, nil
}

func (c *Catalog) ListVehicles() ([]domain.VehicleRef, error) {
	const op = "yamlcatalog.list_vehicles"

	headers, paths, err := c.listHeaders(op, c.paths.VehiclesDir)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.VehicleRef, len(headers))
	for i, h := range headers {
		refs[i] = domain.VehicleRef{
			Name:        h.Name,
			Path:        paths[i],
			Description: h.Description,
		}
	}
	return refs, nil
}

func mapVehicle(y yamlVehicle) domain.Vehicle {
	return domain.Vehicle{
		Name:        y.Name,
		Description: y.Description,
		Mass: domain.MassProperties{
			Empty:      y.Mass.Empty.SI(),
			Battery:    y.Mass.Battery.SI(),
			Cargo:      y.Mass.Cargo.SI(),
			MaxTakeoff: y.Mass.MaxTakeoff.SI(),
			MaxPayload: y.Mass.MaxPayload.SI(),
		},
		Battery: domain.BatterySpec{
			SpecificEnergy:       y.Battery.SpecificEnergy.SI(),
			PackingFactor:        y.Battery.PackingFactor,
			CapacityFade:         y.Battery.CapacityFade,
			InaccessibleFraction: y.Battery.InaccessibleFraction,
			ReserveFraction:      y.Battery.ReserveFraction,
			CruiseFraction:       y.Battery.CruiseFraction,
		},
		Aero: domain.AeroSpec{
			LDRatio:          y.Aero.LDRatio,
			Wingspan:         y.Aero.Wingspan.SI(),
			WingArea:         y.Aero.WingArea.SI(),
			OswaldEfficiency: y.Aero.OswaldEfficiency,
			ParasiticDrag:    y.Aero.ParasiticDrag,
		},
		Propulsion: domain.PropulsionSpec{
			MaxPower:             y.Propulsion.MaxPower.SI(),
			PropEfficiency:       y.Propulsion.PropEfficiency,
			PropDiameter:         y.Propulsion.PropDiameter.SI(),
			DrivetrainEfficiency: y.Propulsion.DrivetrainEfficiency,
			SystemsPower:         y.Propulsion.SystemsPower.SI(),
		},
		Performance: domain.PerformanceSpec{
			CruiseSpeed:    y.Performance.CruiseSpeed.SI(),
			CruiseAltitude: y.Performance.CruiseAltitude.SI(),
			ClimbRate:      y.Performance.ClimbRate.SI(),
		},
	}
}
