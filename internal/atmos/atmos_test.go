package atmos

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

func TestAt_SeaLevel(t *testing.T) {
	st, err := At(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, st.Temperature, 288.16, 1e-9)
	approx(t, st.Density, 1.225, 1e-9)
	approx(t, st.SpeedOfSound, 340.3, 0.1)
}

func TestAt_CruiseAltitude(t *testing.T) {
	st, err := At(3200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Hand-evaluated from the lapse-rate profile.
	approx(t, st.Temperature, 267.37, 0.01)
	approx(t, st.Density, 0.8904, 0.001)
	if st.Density >= 1.225 {
		t.Fatalf("density must fall with altitude, got %g", st.Density)
	}
}

func TestAt_NegativeClampsToSeaLevel(t *testing.T) {
	st, err := At(-50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, st.Density, 1.225, 1e-9)
	if st.Altitude != 0 {
		t.Fatalf("expected clamped altitude 0, got %g", st.Altitude)
	}
}

func TestAt_AboveCeiling(t *testing.T) {
	if _, err := At(11000); err != nil {
		t.Fatalf("the ceiling itself must be valid: %v", err)
	}

	_, err := At(11001)
	if err == nil {
		t.Fatal("expected error above 11 km")
	}
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}
}

func TestDynamicPressure(t *testing.T) {
	approx(t, DynamicPressure(1.225, 10), 61.25, 1e-9)
}

func TestThrustLapse_SeaLevelStatic(t *testing.T) {
	st, err := At(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.568 + 0.25*(1.2)^3 = 1 at zero Mach.
	approx(t, ThrustLapse(st, 0), 1.0, 1e-4)
}

func TestThrustLapse_FallsWithAltitude(t *testing.T) {
	low, err := At(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := At(7620)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	speed := 85.0
	if ThrustLapse(high, speed) >= ThrustLapse(low, speed) {
		t.Fatal("lapse must fall with altitude at fixed airspeed")
	}
}
