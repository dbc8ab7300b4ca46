package yamlcatalog

import (
	"testing"

	"github.com/project-avie/avie/internal/domain"
)

const mtowStudyYAML = `
name: mtow-range
description: Battery mass against achievable range

case: baseline
axes:
  - param: mass.battery
    from: 400 kg
    to: 1100 kg
    steps: 8
metrics:
  - range_with_reserve_km
  - mtow_kg
parallel: 2
`

func TestLoadStudy_ExpandsAxes(t *testing.T) {
	root := t.TempDir()
	writeEntity(t, root, "studies", "mtow-range.yaml", mtowStudyYAML)

	c := New(root)
	s, err := c.LoadStudy("mtow-range")
	if err != nil {
		t.Fatalf("LoadStudy: %v", err)
	}

	if s.Case != "baseline" {
		t.Fatalf("expected case baseline, got %q", s.Case)
	}
	if len(s.Axes) != 1 {
		t.Fatalf("expected one axis, got %d", len(s.Axes))
	}

	vals := s.Axes[0].Expand()
	if len(vals) != 8 {
		t.Fatalf("expected 8 values, got %d", len(vals))
	}
	if vals[0] != 400 || vals[7] != 1100 {
		t.Fatalf("expected 400..1100, got %f..%f", vals[0], vals[7])
	}
	if s.Workers() != 2 {
		t.Fatalf("expected 2 workers, got %d", s.Workers())
	}
}

func TestLoadStudy_ExplicitValuesWithUnits(t *testing.T) {
	root := t.TempDir()
	writeEntity(t, root, "studies", "cargo.yaml", `
name: cargo-sweep
case: baseline
axes:
  - param: mass.cargo
    values: ["500 lb", "1000 lb", "1500 lb"]
`)

	c := New(root)
	s, err := c.LoadStudy("cargo-sweep")
	if err != nil {
		t.Fatalf("LoadStudy: %v", err)
	}
	vals := s.Axes[0].Expand()
	if len(vals) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vals))
	}
	want := 500 * 0.45359237
	if diff := vals[0] - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected %f kg, got %f", want, vals[0])
	}
}

func TestLoadStudy_UnknownAxisParam(t *testing.T) {
	root := t.TempDir()
	writeEntity(t, root, "studies", "bad.yaml", `
name: bad
case: baseline
axes:
  - param: aero.flap_span
    from: 1
    to: 2
    steps: 3
`)

	c := New(root)
	_, err := c.LoadStudy("bad")
	if err == nil {
		t.Fatalf("expected error for unknown axis param")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}

func TestLoadStudy_TooManyAxes(t *testing.T) {
	root := t.TempDir()
	writeEntity(t, root, "studies", "cube.yaml", `
name: cube
case: baseline
axes:
  - param: mass.battery
    from: 400
    to: 1100
    steps: 3
  - param: mass.cargo
    from: 0
    to: 1000
    steps: 3
  - param: battery.specific_energy
    from: 900000
    to: 1800000
    steps: 3
`)

	c := New(root)
	_, err := c.LoadStudy("cube")
	if err == nil {
		t.Fatalf("expected error for three axes")
	}
}
