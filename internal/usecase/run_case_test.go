package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
)

const (
	mphTest = 0.44704
	fpmTest = 0.3048 / 60.0
)

// --- fakes shared by the usecase tests ---

type fakeCatalog struct {
	vehicles  map[string]domain.Vehicle
	missions  map[string]domain.Mission
	cases     map[string]domain.Case
	scenarios map[string]domain.Scenario
	studies   map[string]domain.Study
}

func notFound(op, name string) error {
	return &domain.OpError{Op: op, Kind: domain.KindNotFound, Err: fmt.Errorf("%s not found", name)}
}

func (f *fakeCatalog) LoadVehicle(name string) (domain.Vehicle, error) {
	v, ok := f.vehicles[name]
	if !ok {
		return domain.Vehicle{}, notFound("catalog.vehicle", name)
	}
	return v, nil
}

func (f *fakeCatalog) ListVehicles() ([]domain.VehicleRef, error) {
	var out []domain.VehicleRef
	for name := range f.vehicles {
		out = append(out, domain.VehicleRef{Name: name, Path: name})
	}
	return out, nil
}

func (f *fakeCatalog) LoadMission(name string) (domain.Mission, error) {
	m, ok := f.missions[name]
	if !ok {
		return domain.Mission{}, notFound("catalog.mission", name)
	}
	return m, nil
}

func (f *fakeCatalog) ListMissions() ([]domain.MissionRef, error) {
	var out []domain.MissionRef
	for name := range f.missions {
		out = append(out, domain.MissionRef{Name: name, Path: name})
	}
	return out, nil
}

func (f *fakeCatalog) LoadCase(name string) (domain.Case, error) {
	c, ok := f.cases[name]
	if !ok {
		return domain.Case{}, notFound("catalog.case", name)
	}
	return c, nil
}

func (f *fakeCatalog) ListCases() ([]domain.CaseRef, error) {
	var out []domain.CaseRef
	for name, c := range f.cases {
		out = append(out, domain.CaseRef{Name: name, Path: name, Vehicle: c.Vehicle, Mission: c.Mission})
	}
	return out, nil
}

func (f *fakeCatalog) LoadScenario(name string) (domain.Scenario, error) {
	s, ok := f.scenarios[name]
	if !ok {
		return domain.Scenario{}, notFound("catalog.scenario", name)
	}
	return s, nil
}

func (f *fakeCatalog) ListScenarios() ([]domain.ScenarioRef, error) {
	var out []domain.ScenarioRef
	for name := range f.scenarios {
		out = append(out, domain.ScenarioRef{Name: name, Path: name})
	}
	return out, nil
}

func (f *fakeCatalog) LoadStudy(name string) (domain.Study, error) {
	s, ok := f.studies[name]
	if !ok {
		return domain.Study{}, notFound("catalog.study", name)
	}
	return s, nil
}

func (f *fakeCatalog) ListStudies() ([]domain.StudyRef, error) {
	var out []domain.StudyRef
	for name, s := range f.studies {
		out = append(out, domain.StudyRef{Name: name, Path: name, Case: s.Case})
	}
	return out, nil
}

type fakeRunStore struct {
	runs    []domain.RunArtifact
	studies []domain.StudyArtifact
	saveErr error
}

func (s *fakeRunStore) SaveRun(run domain.RunArtifact) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.runs = append(s.runs, run)
	return fmt.Sprintf("run-%d", len(s.runs)), nil
}

func (s *fakeRunStore) SaveStudy(run domain.StudyArtifact) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.studies = append(s.studies, run)
	return fmt.Sprintf("study-%d", len(s.studies)), nil
}

func (s *fakeRunStore) LoadRun(id string) (domain.RunArtifact, error) {
	return domain.RunArtifact{}, notFound("store.run", id)
}

func (s *fakeRunStore) LoadStudy(id string) (domain.StudyArtifact, error) {
	return domain.StudyArtifact{}, notFound("store.study", id)
}

func (s *fakeRunStore) List(domain.RunFilter) ([]domain.RunRow, error) { return nil, nil }

func (s *fakeRunStore) Series(string, string) ([]domain.SeriesPoint, error) { return nil, nil }

func (s *fakeRunStore) Delete(string) error { return nil }

func (s *fakeRunStore) Reindex() (int, error) { return 0, nil }

// --- fixtures ---

func testVehicle() domain.Vehicle {
	return domain.Vehicle{
		Name: "c208b",
		Mass: domain.MassProperties{
			Empty:      2533,
			Battery:    1009,
			Cargo:      443,
			MaxTakeoff: 4383.5,
			MaxPayload: 680.39,
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

// testMission flies two climbs, a cruise, a reserve hold and a descent.
// variable selects whether the cruise distance is solved or flown as given.
func testMission(variable bool) domain.Mission {
	return domain.Mission{
		Name:                "full",
		ControlPoints:       4,
		TargetStateOfCharge: 0.15,
		Segments: []domain.Segment{
			{Name: "climb_1", Kind: domain.SegmentClimb, AltitudeStart: 0, AltitudeEnd: 2000, Airspeed: 125 * mphTest, Rate: 1000 * fpmTest},
			{Name: "climb_2", Kind: domain.SegmentClimb, AltitudeStart: 2000, AltitudeEnd: 3500, Airspeed: 160 * mphTest, Rate: 1000 * fpmTest},
			{Name: "cruise", Kind: domain.SegmentCruise, Altitude: 3500, Airspeed: 180 * mphTest, Distance: 10e3, VariableRange: variable},
			{Name: "hold", Kind: domain.SegmentHold, Altitude: 3500, Airspeed: 180 * mphTest, Duration: 30 * 60, Reserve: true},
			{Name: "descent", Kind: domain.SegmentDescent, AltitudeStart: 3500, AltitudeEnd: 2000, Airspeed: 150 * mphTest, Rate: 500 * fpmTest},
		},
	}
}

func testCase() domain.Case {
	return domain.Case{
		Name:    "baseline",
		Vehicle: "c208b",
		Mission: "full",
		Checks: []domain.CheckSpec{
			{Name: "soc floor", Metric: "battery_remaining", Op: domain.CheckGT, Value: 0.1},
			{Name: "flew somewhere", Metric: "mission_range_km", Op: domain.CheckGT, Value: 10},
		},
		Extract: domain.ExtractSpec{
			"usage_kwh": "$.summary.energy_usage_kwh",
		},
	}
}

func fixtureCatalog() *fakeCatalog {
	return &fakeCatalog{
		vehicles: map[string]domain.Vehicle{"c208b": testVehicle()},
		missions: map[string]domain.Mission{
			"full":   testMission(false),
			"solver": testMission(true),
		},
		cases: map[string]domain.Case{"baseline": testCase()},
		scenarios: map[string]domain.Scenario{
			"450wh":    {Name: "450wh", Params: domain.Params{"battery.specific_energy": 450 * 3600}},
			"350wh":    {Name: "350wh", Params: domain.Params{"battery.specific_energy": 350 * 3600}},
			"250wh":    {Name: "250wh", Params: domain.Params{"battery.specific_energy": 250 * 3600}},
			"fullload": {Name: "fullload", Params: domain.Params{"mass.cargo": 680.39}},
		},
	}
}

func testSim() *mission.Simulator {
	return mission.New(mission.WithControlPoints(4))
}

// --- RunCase.Execute ---

func TestRunCase_Execute_PassesAndSaves(t *testing.T) {
	store := &fakeRunStore{}
	uc := NewRunCase(fixtureCatalog(), testSim(), store)

	art, id, err := uc.Execute(context.Background(), "baseline", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if art.Status != domain.RunPassed {
		t.Fatalf("expected status passed, got %q (%s)", art.Status, art.Error)
	}
	if id != "run-1" {
		t.Fatalf("expected id run-1, got %q", id)
	}
	if art.ID != id {
		t.Fatalf("expected artifact ID set to %q, got %q", id, art.ID)
	}
	if len(store.runs) != 1 {
		t.Fatalf("expected 1 saved run, got %d", len(store.runs))
	}
	for _, c := range art.Checks {
		if !c.Passed {
			t.Fatalf("expected check %q to pass: %s", c.Name, c.Message)
		}
	}
	if art.Extracted["usage_kwh"] == "" {
		t.Fatalf("expected usage_kwh extracted, results: %+v", art.Extracts)
	}
	if len(art.Segments) != 5 {
		t.Fatalf("expected 5 segment traces, got %d", len(art.Segments))
	}
	if art.Summary["takeoff_mass_kg"] != 2533+1009+443 {
		t.Fatalf("expected sized takeoff mass, got %g", art.Summary["takeoff_mass_kg"])
	}
}

func TestRunCase_Execute_ScenarioFromFlagOverridesCase(t *testing.T) {
	cat := fixtureCatalog()
	cs := testCase()
	// A 250 Wh/kg pack cannot finish this mission, so if the flag
	// loses the run errors out instead of silently passing.
	cs.Scenario = "250wh"
	cat.cases["baseline"] = cs

	uc := NewRunCase(cat, testSim(), &fakeRunStore{})
	art, _, err := uc.Execute(context.Background(), "baseline", "fullload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if art.Scenario != "fullload" {
		t.Fatalf("expected flag scenario to win, got %q", art.Scenario)
	}
	if got := art.Params["mass.cargo"]; got != 680.39 {
		t.Fatalf("expected full cargo load applied, got %g", got)
	}
	if _, ok := art.Params["battery.specific_energy"]; ok {
		t.Fatalf("case scenario params leaked into the run: %v", art.Params)
	}
}

func TestRunCase_Execute_CaseParamsBeatScenario(t *testing.T) {
	cat := fixtureCatalog()
	cs := testCase()
	// The case pins the pack back to 450 Wh/kg; the scenario value
	// alone would deplete it mid-hold.
	cs.Scenario = "250wh"
	cs.Params = domain.Params{"battery.specific_energy": 450 * 3600}
	cat.cases["baseline"] = cs

	uc := NewRunCase(cat, testSim(), &fakeRunStore{})
	art, _, err := uc.Execute(context.Background(), "baseline", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := art.Params["battery.specific_energy"]; got != 450*3600 {
		t.Fatalf("expected case param to override scenario, got %g", got)
	}
}

func TestRunCase_Execute_CheckFailureIsNotAnError(t *testing.T) {
	cat := fixtureCatalog()
	cs := testCase()
	cs.Checks = []domain.CheckSpec{
		{Name: "impossible range", Metric: "mission_range_km", Op: domain.CheckGT, Value: 1e6},
	}
	cat.cases["baseline"] = cs

	store := &fakeRunStore{}
	uc := NewRunCase(cat, testSim(), store)

	art, id, err := uc.Execute(context.Background(), "baseline", "")
	if err != nil {
		t.Fatalf("check failure must not be an error, got: %v", err)
	}
	if art.Status != domain.RunFailed {
		t.Fatalf("expected status failed, got %q", art.Status)
	}
	if id == "" || len(store.runs) != 1 {
		t.Fatalf("failed runs must still be saved")
	}
}

func TestRunCase_Execute_DepletedBatterySavedAsError(t *testing.T) {
	cat := fixtureCatalog()
	cs := testCase()
	// 40 kg of battery cannot finish the reference mission.
	cs.Params = domain.Params{"mass.battery": 40}
	cat.cases["baseline"] = cs

	store := &fakeRunStore{}
	uc := NewRunCase(cat, testSim(), store)

	art, id, err := uc.Execute(context.Background(), "baseline", "")
	if err == nil {
		t.Fatalf("expected simulation error")
	}
	if !strings.Contains(err.Error(), "battery depleted") {
		t.Fatalf("unexpected error: %v", err)
	}
	if art.Status != domain.RunError {
		t.Fatalf("expected status error, got %q", art.Status)
	}
	if art.Error == "" {
		t.Fatalf("expected artifact error message")
	}
	if id == "" || len(store.runs) != 1 {
		t.Fatalf("errored runs must still be saved for inspection")
	}
}

func TestRunCase_Execute_WithoutSave(t *testing.T) {
	store := &fakeRunStore{}
	uc := NewRunCase(fixtureCatalog(), testSim(), store, WithoutSave())

	art, id, err := uc.Execute(context.Background(), "baseline", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id without save, got %q", id)
	}
	if len(store.runs) != 0 {
		t.Fatalf("expected no saved runs")
	}
	if art.Status != domain.RunPassed {
		t.Fatalf("expected run still evaluated, got %q", art.Status)
	}
}

func TestRunCase_Execute_UnknownCase(t *testing.T) {
	uc := NewRunCase(fixtureCatalog(), testSim(), &fakeRunStore{})

	_, _, err := uc.Execute(context.Background(), "nope", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestRunCase_Execute_UnknownScenario(t *testing.T) {
	uc := NewRunCase(fixtureCatalog(), testSim(), &fakeRunStore{})

	_, _, err := uc.Execute(context.Background(), "baseline", "nope")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestRunCase_Execute_StoreSaveError(t *testing.T) {
	saveErr := errors.New("store unavailable")
	store := &fakeRunStore{saveErr: saveErr}
	uc := NewRunCase(fixtureCatalog(), testSim(), store)

	art, id, err := uc.Execute(context.Background(), "baseline", "")
	if err == nil {
		t.Fatalf("expected error from SaveRun")
	}
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected saveErr, got %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id on store error, got %q", id)
	}
	// The evaluated artifact still comes back so the caller can show results.
	if art.Status != domain.RunPassed {
		t.Fatalf("expected evaluated artifact, got status %q", art.Status)
	}
}

func TestRunCase_Execute_SolvesVariableRange(t *testing.T) {
	cat := fixtureCatalog()
	cs := testCase()
	cs.Mission = "solver"
	cat.cases["baseline"] = cs

	uc := NewRunCase(cat, testSim(), &fakeRunStore{})
	art, _, err := uc.Execute(context.Background(), "baseline", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	soc := art.Summary["battery_remaining"]
	if soc < 0.14 || soc > 0.16 {
		t.Fatalf("expected solver to land near the 0.15 target, got %g", soc)
	}
	if art.Summary["cruise_distance_km"] <= 10e3/1000 {
		t.Fatalf("expected solved cruise beyond the configured 10 km, got %g", art.Summary["cruise_distance_km"])
	}
}

func TestRunCase_Execute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fakeRunStore{}
	uc := NewRunCase(fixtureCatalog(), testSim(), store)

	art, _, err := uc.Execute(ctx, "baseline", "")
	if err == nil {
		t.Fatalf("expected context error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if art.Status != domain.RunError {
		t.Fatalf("expected status error, got %q", art.Status)
	}
}

// compile-time checks
var _ ports.Catalog = (*fakeCatalog)(nil)
var _ ports.RunStore = (*fakeRunStore)(nil)
