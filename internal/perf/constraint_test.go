package perf

import "testing"

func TestConstraintDiagram_Defaults(t *testing.T) {
	d := ConstraintDiagram(testVehicle())

	if len(d.Points) != 40 {
		t.Fatalf("expected 40 sweep points, got %d", len(d.Points))
	}
	approx(t, d.Points[0].WingLoading, 10/9.81, 1e-6)
	approx(t, d.Points[39].WingLoading, 6000/9.81, 1e-6)

	// 120 mph at CLmax 2.5 in sea-level air.
	approx(t, d.LandingWingLoading, 449.2, 0.1)
	approx(t, d.DesignWingLoading, 3985.0/25.96, 1e-6)
}

func TestConstraintDiagram_CurveShapes(t *testing.T) {
	d := ConstraintDiagram(testVehicle())

	for i, p := range d.Points {
		for name, tw := range map[string]float64{
			"cruise":     p.Cruise,
			"max_cruise": p.MaxCruise,
			"stall":      p.Stall,
			"climb":      p.Climb,
		} {
			if tw <= 0 {
				t.Fatalf("point %d: %s thrust-to-weight not positive: %g", i, name, tw)
			}
		}
	}

	// The parasitic term dominates at low wing loading, the induced term
	// at high wing loading, so the cruise requirement dips in between.
	first := d.Points[0].Cruise
	last := d.Points[len(d.Points)-1].Cruise
	min := first
	for _, p := range d.Points {
		if p.Cruise < min {
			min = p.Cruise
		}
	}
	if min >= first || min >= last {
		t.Fatalf("expected an interior minimum: first %g, min %g, last %g", first, min, last)
	}

	// At low wing loading the climb-rate term dominates the climb curve.
	if d.Points[5].Climb <= d.Points[5].Stall {
		t.Fatalf("climb must sit above stall at low wing loading: %g <= %g",
			d.Points[5].Climb, d.Points[5].Stall)
	}
}

func TestConstraintDiagram_SweepOption(t *testing.T) {
	d := ConstraintDiagram(testVehicle(), WithSweep(100, 1000, 10))
	if len(d.Points) != 10 {
		t.Fatalf("expected 10 points, got %d", len(d.Points))
	}
	approx(t, d.Points[0].WingLoading, 100/9.81, 1e-6)
	approx(t, d.Points[9].WingLoading, 1000/9.81, 1e-6)
}

func TestConstraintDiagram_OswaldOption(t *testing.T) {
	base := ConstraintDiagram(testVehicle())
	lower := ConstraintDiagram(testVehicle(), WithOswald(0.6))

	// A worse polar raises the induced-drag share everywhere.
	last := len(base.Points) - 1
	if lower.Points[last].Cruise <= base.Points[last].Cruise {
		t.Fatalf("expected higher thrust demand with lower span efficiency: %g <= %g",
			lower.Points[last].Cruise, base.Points[last].Cruise)
	}
}
