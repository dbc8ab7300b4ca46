package mission

import "github.com/project-avie/avie/internal/domain"

const joulesPerKWh = 3.6e6

// Summarize reduces a flown mission to the canonical metric set. Reserve
// segments are carved out the way the flight-test scripts report them:
// their energy is bookkept separately and their distance does not count
// toward range with reserve.
func Summarize(v *domain.Vehicle, res Result) domain.Metrics {
	var reserveEnergy, reserveDistance, cruiseDistance float64
	for _, tr := range res.Segments {
		if tr.Reserve {
			reserveEnergy += tr.Energy
			reserveDistance += segmentDistance(tr)
			continue
		}
		if tr.Kind == domain.SegmentCruise {
			cruiseDistance += segmentDistance(tr)
		}
	}

	return domain.Metrics{
		"mtow_kg":               v.Mass.MaxTakeoff,
		"takeoff_mass_kg":       v.TotalMass(),
		"empty_mass_kg":         v.Mass.Empty,
		"battery_mass_kg":       v.Mass.Battery,
		"cargo_mass_kg":         v.Mass.Cargo,
		"payload_mass_kg":       v.Mass.MaxPayload,
		"total_energy_kwh":      res.InitialEnergy / joulesPerKWh,
		"energy_usage_kwh":      (res.InitialEnergy - res.FinalEnergy - reserveEnergy) / joulesPerKWh,
		"reserve_energy_kwh":    reserveEnergy / joulesPerKWh,
		"battery_remaining":     res.FinalSoC,
		"mission_time_min":      res.TotalTime / 60,
		"mission_range_km":      res.TotalDistance / 1000,
		"range_with_reserve_km": (res.TotalDistance - reserveDistance) / 1000,
		"cruise_distance_km":    cruiseDistance / 1000,
	}
}

func segmentDistance(tr domain.SegmentTrace) float64 {
	if len(tr.Distance) == 0 {
		return 0
	}
	return tr.Distance[len(tr.Distance)-1] - tr.Distance[0]
}
