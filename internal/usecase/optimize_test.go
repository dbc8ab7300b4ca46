package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/opt"
)

// --- Optimize.Battery ---

func TestOptimize_Battery_SizesThePack(t *testing.T) {
	uc := NewOptimize(fixtureCatalog(), testSim())

	// A loose floor leaves only the energy objective, which favours the
	// lightest pack the bounds allow.
	res, err := uc.Battery(context.Background(), "baseline", "", opt.BatteryOptions{Floor: 0.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BatteryMass < opt.DefaultLowerBound || res.BatteryMass > opt.DefaultUpperBound {
		t.Fatalf("battery mass %g left the default bounds", res.BatteryMass)
	}
	if res.BatteryMass > opt.DefaultLowerBound+100 {
		t.Errorf("expected an optimum near the lower bound, got %g kg", res.BatteryMass)
	}
	if res.TakeoffMass != 2533+res.BatteryMass+443 {
		t.Errorf("expected a re-closed mass budget, got %g for battery %g", res.TakeoffMass, res.BatteryMass)
	}
	if res.EnergyUsageKWh <= 0 {
		t.Errorf("expected positive energy usage, got %g", res.EnergyUsageKWh)
	}
}

func TestOptimize_Battery_UnknownCase(t *testing.T) {
	uc := NewOptimize(fixtureCatalog(), testSim())

	_, err := uc.Battery(context.Background(), "nope", "", opt.BatteryOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestOptimize_Battery_UnknownScenario(t *testing.T) {
	uc := NewOptimize(fixtureCatalog(), testSim())

	_, err := uc.Battery(context.Background(), "baseline", "nope", opt.BatteryOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

// --- Optimize.MaxRange ---

func TestOptimize_MaxRange_StretchesCruise(t *testing.T) {
	uc := NewOptimize(payloadFixture(), testSim())

	res, err := uc.MaxRange(context.Background(), "baseline", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CruiseKm <= 10 {
		t.Errorf("expected the cruise to stretch past its 10 km seed, got %g km", res.CruiseKm)
	}
	if math.Abs(res.BatteryRemaining-opt.DefaultCruiseFloor) > 1e-3 {
		t.Errorf("expected the flight to land on the %g floor, got %g", opt.DefaultCruiseFloor, res.BatteryRemaining)
	}
	if res.RangeKm <= res.CruiseKm {
		t.Errorf("climb and descent must add distance beyond the cruise, got range %g km for cruise %g km", res.RangeKm, res.CruiseKm)
	}
	if res.RangeWithReserveKm >= res.RangeKm {
		t.Errorf("reserve hold distance must not count, got %g km with reserve vs %g km", res.RangeWithReserveKm, res.RangeKm)
	}
	if res.TimeMin <= 0 {
		t.Errorf("expected positive mission time, got %g", res.TimeMin)
	}
}

func TestOptimize_MaxRange_PoorerPackFliesShorter(t *testing.T) {
	uc := NewOptimize(payloadFixture(), testSim())

	rich, err := uc.MaxRange(context.Background(), "baseline", "450wh", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	poor, err := uc.MaxRange(context.Background(), "baseline", "250wh", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poor.CruiseKm >= rich.CruiseKm {
		t.Fatalf("expected the 250 Wh/kg pack to cruise shorter, got %g km vs %g km", poor.CruiseKm, rich.CruiseKm)
	}
}

func TestOptimize_MaxRange_FixedMissionRejected(t *testing.T) {
	uc := NewOptimize(fixtureCatalog(), testSim())

	_, err := uc.MaxRange(context.Background(), "baseline", "", 0)
	if err == nil {
		t.Fatal("expected error for a mission without a variable-range cruise")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}
