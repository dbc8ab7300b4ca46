package perf

import (
	"math"
	"testing"

	"github.com/project-avie/avie/internal/domain"
)

func approx(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("expected %g, got %g (tol %g)", want, got, tol)
	}
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		Name: "cessna-208b-electric",
		Mass: domain.MassProperties{
			Empty:   2533,
			Battery: 1009,
			Cargo:   443,
		},
		Battery: domain.BatterySpec{
			SpecificEnergy:       450 * 3600,
			PackingFactor:        0.8,
			CapacityFade:         0.15,
			InaccessibleFraction: 0.08,
			ReserveFraction:      0.2,
			CruiseFraction:       0.6,
		},
		Aero: domain.AeroSpec{
			LDRatio:          11,
			Wingspan:         15.87,
			WingArea:         25.96,
			OswaldEfficiency: 0.8,
			ParasiticDrag:    0.034,
		},
		Propulsion: domain.PropulsionSpec{
			MaxPower:             503e3,
			PropEfficiency:       0.85,
			PropDiameter:         2.69,
			DrivetrainEfficiency: 0.9,
		},
		Performance: domain.PerformanceSpec{
			CruiseSpeed:    344 / 3.6,
			CruiseAltitude: 3200,
			ClimbRate:      6.27,
		},
	}
}
