package mission

import (
	"context"
	"testing"
)

func TestSummarize_ReferenceMission(t *testing.T) {
	v := testVehicle()
	res, err := New().Fly(context.Background(), v, testMission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := Summarize(v, res)

	approx(t, m["mtow_kg"], 4383.5, 1e-9)
	approx(t, m["takeoff_mass_kg"], 3985, 1e-9)
	approx(t, m["empty_mass_kg"], 2533, 1e-9)
	approx(t, m["battery_mass_kg"], 1009, 1e-9)
	approx(t, m["cargo_mass_kg"], 443, 1e-9)
	approx(t, m["payload_mass_kg"], 680.39, 1e-9)

	// 1009 kg at 450 Wh/kg, 0.8 packing.
	approx(t, m["total_energy_kwh"], 363.24, 1e-6)
	approx(t, m["battery_remaining"], res.FinalSoC, 1e-12)

	// Kinematic metrics are exact.
	approx(t, m["mission_range_km"], 237.56096, 1e-3)
	approx(t, m["range_with_reserve_km"], 92.72, 1e-2)
	approx(t, m["cruise_distance_km"], 10, 1e-6)
	approx(t, m["mission_time_min"], 53.3967, 1e-3)

	// The reserve hold dominates the loiter energy.
	if m["reserve_energy_kwh"] < 150 || m["reserve_energy_kwh"] > 200 {
		t.Fatalf("reserve energy out of band: %g kWh", m["reserve_energy_kwh"])
	}

	// usage + reserve + remaining account for the full pack.
	total := m["energy_usage_kwh"] + m["reserve_energy_kwh"] +
		m["battery_remaining"]*m["total_energy_kwh"]
	approx(t, total, m["total_energy_kwh"], 1e-6)
}

func TestSummarize_NoReserveSegments(t *testing.T) {
	v := testVehicle()
	m := testMission()
	m.Segments[3].Reserve = false

	res, err := New().Fly(context.Background(), v, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Summarize(v, res)
	approx(t, got["reserve_energy_kwh"], 0, 1e-12)
	approx(t, got["range_with_reserve_km"], got["mission_range_km"], 1e-12)
}
