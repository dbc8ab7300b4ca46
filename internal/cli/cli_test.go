package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/opt"
)

// --- usage errors ---

func TestUsageError_Detected(t *testing.T) {
	err := usageErrorf("case is required")
	if !isUsageError(err) {
		t.Error("expected usageErrorf result to be a usage error")
	}
	if !isUsageError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected wrapped usage error to stay detectable")
	}
	if isUsageError(errors.New("boom")) {
		t.Error("expected plain error not to be a usage error")
	}
	if isUsageError(nil) {
		t.Error("expected nil not to be a usage error")
	}
}

func TestCheckOutput(t *testing.T) {
	for _, ok := range []string{"", "pretty", "json"} {
		if err := checkOutput(ok); err != nil {
			t.Errorf("checkOutput(%q) = %v, want nil", ok, err)
		}
	}
	err := checkOutput("xml")
	if err == nil {
		t.Fatal("expected error for unknown output format")
	}
	if !isUsageError(err) {
		t.Error("expected unknown output format to be a usage error")
	}
}

// --- effectiveScenario ---

func TestEffectiveScenario_Chain(t *testing.T) {
	ws := &workspaceCtx{cfg: domain.Config{
		Defaults: domain.DefaultsConfig{Scenario: "450wh"},
	}}

	cases := []struct {
		flag, caseScen, want string
	}{
		{"250wh", "350wh", "250wh"},
		{"", "350wh", "350wh"},
		{"", "", "450wh"},
	}
	for _, c := range cases {
		if got := effectiveScenario(ws, c.flag, c.caseScen); got != c.want {
			t.Errorf("effectiveScenario(flag=%q, case=%q) = %q, want %q",
				c.flag, c.caseScen, got, c.want)
		}
	}
}

func TestEffectiveScenario_NoDefault(t *testing.T) {
	ws := &workspaceCtx{}
	if got := effectiveScenario(ws, "", ""); got != "" {
		t.Errorf("expected empty scenario, got %q", got)
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- metric ordering ---

func TestOrderedMetricNames_CanonicalFirst(t *testing.T) {
	m := domain.Metrics{
		"zz_custom":             1,
		"battery_remaining":     0.3,
		"takeoff_mass_kg":       3985,
		"range_with_reserve_km": 212,
		"aa_custom":             2,
	}
	got := orderedMetricNames(m)
	want := []string{"takeoff_mass_kg", "battery_remaining", "range_with_reserve_km", "aa_custom", "zz_custom"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// --- artifact fixtures ---

func artifactFixture() domain.RunArtifact {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return domain.RunArtifact{
		Kind:       domain.RunCase,
		Case:       "baseline",
		Vehicle:    "c208b-electric",
		Mission:    "full-mission",
		Scenario:   "450wh",
		StartedAt:  start,
		FinishedAt: start.Add(800 * time.Millisecond),
		Status:     domain.RunFailed,
		Summary: domain.Metrics{
			"battery_remaining":     0.342,
			"range_with_reserve_km": 212.5,
		},
		Checks: []domain.CheckResult{
			{Name: "soc-floor", Passed: true, Message: "battery_remaining: 0.342 > 0.3"},
			{Name: "long-legs", Passed: false, Message: "range_with_reserve_km: expected > 300, got 212.5"},
		},
		Extracted: map[string]string{"usage_kwh": "241.3"},
		Segments: []domain.SegmentTrace{
			{
				Name:          "cruise",
				Kind:          domain.SegmentCruise,
				Time:          []float64{900, 1100},
				Distance:      []float64{30000, 61000},
				StateOfCharge: []float64{0.8, 0.6},
				Energy:        90e6,
			},
		},
	}
}

func studyFixture() domain.StudyArtifact {
	return domain.StudyArtifact{
		Kind:    domain.RunStudy,
		Study:   "mtow-range",
		Case:    "baseline",
		Vehicle: "c208b-electric",
		Status:  domain.RunPassed,
		Axes:    []domain.Axis{{Param: "mass.battery", From: 800, To: 1200, Steps: 3}},
		Metrics: []string{"range_with_reserve_km"},
		Points: []domain.StudyPoint{
			{Index: 0, Params: domain.Params{"mass.battery": 800}, Summary: domain.Metrics{"range_with_reserve_km": 150.1}, Status: domain.RunPassed},
			{Index: 1, Params: domain.Params{"mass.battery": 1000}, Summary: domain.Metrics{"range_with_reserve_km": 201.7}, Status: domain.RunPassed},
			{Index: 2, Params: domain.Params{"mass.battery": 1200}, Summary: domain.Metrics{"range_with_reserve_km": 248.9}, Status: domain.RunPassed},
		},
	}
}

// --- printRunArtifact ---

func TestPrintRunArtifact_JSON_ValidOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := printRunArtifact(&buf, artifactFixture(), "run-42", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["run_id"] != "run-42" {
		t.Errorf("expected run_id=run-42, got %v", payload["run_id"])
	}
	if payload["run"] == nil {
		t.Error("expected 'run' key in JSON output")
	}
}

func TestPrintRunArtifact_Pretty_ContainsHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := printRunArtifact(&buf, artifactFixture(), "run-42", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"baseline", "c208b-electric", "full-mission", "450wh", "failed", "run-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output, got:\n%s", want, out)
		}
	}
}

func TestPrintRunArtifact_EmptyFormat_IsPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printRunArtifact(&buf, domain.RunArtifact{}, "", ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
}

func TestPrintRunArtifact_UnknownFormat_ReturnsUsageError(t *testing.T) {
	var buf bytes.Buffer
	err := printRunArtifact(&buf, domain.RunArtifact{}, "", "xml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error to mention the format, got: %v", err)
	}
	if !isUsageError(err) {
		t.Error("expected unknown format to be a usage error")
	}
}

func TestPrintPrettyRun_ChecksAndSegments(t *testing.T) {
	var buf bytes.Buffer
	printPrettyRun(&buf, artifactFixture(), "")
	out := buf.String()

	if !strings.Contains(out, "1 pass / 1 fail") {
		t.Errorf("expected check pass/fail count, got:\n%s", out)
	}
	if !strings.Contains(out, "✗") || !strings.Contains(out, "✓") {
		t.Errorf("expected pass and fail marks, got:\n%s", out)
	}
	if !strings.Contains(out, "usage_kwh = 241.3") {
		t.Errorf("expected extracted value, got:\n%s", out)
	}
	// 200 s segment, 31 km flown, 25 kWh burned.
	if !strings.Contains(out, "cruise") || !strings.Contains(out, "200 s") {
		t.Errorf("expected segment row, got:\n%s", out)
	}
	if !strings.Contains(out, "31.0 km") || !strings.Contains(out, "25.0 kWh") {
		t.Errorf("expected segment distance and energy, got:\n%s", out)
	}
}

func TestPrintPrettyRun_ErrorShown(t *testing.T) {
	art := domain.RunArtifact{
		Case:   "baseline",
		Status: domain.RunError,
		Error:  `battery depleted 120 s into segment "climb_1"`,
	}
	var buf bytes.Buffer
	printPrettyRun(&buf, art, "")
	if !strings.Contains(buf.String(), "battery depleted") {
		t.Errorf("expected error message in output, got:\n%s", buf.String())
	}
}

// --- printStudyArtifact ---

func TestPrintPrettyStudy_Table(t *testing.T) {
	var buf bytes.Buffer
	printPrettyStudy(&buf, studyFixture(), "study-7")
	out := buf.String()

	for _, want := range []string{"mtow-range", "study-7", "mass.battery", "range_with_reserve_km", "201.7", "passed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in study output, got:\n%s", want, out)
		}
	}
}

func TestPrintPrettyStudy_NoPoints(t *testing.T) {
	art := studyFixture()
	art.Points = nil
	var buf bytes.Buffer
	printPrettyStudy(&buf, art, "")
	if !strings.Contains(buf.String(), "(no points evaluated)") {
		t.Errorf("expected empty-points note, got:\n%s", buf.String())
	}
}

func TestPrintStudyArtifact_JSON_ValidOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := printStudyArtifact(&buf, studyFixture(), "study-7", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["run_id"] != "study-7" {
		t.Errorf("expected run_id=study-7, got %v", payload["run_id"])
	}
	if payload["study"] == nil {
		t.Error("expected 'study' key in JSON output")
	}
}

// --- counters ---

func TestCountChecks(t *testing.T) {
	pass, fail := countChecks([]domain.CheckResult{
		{Passed: true}, {Passed: false}, {Passed: true},
	})
	if pass != 2 || fail != 1 {
		t.Errorf("expected pass=2 fail=1, got pass=%d fail=%d", pass, fail)
	}
}

func TestCountNotPassed(t *testing.T) {
	points := []domain.StudyPoint{
		{Status: domain.RunPassed},
		{Status: domain.RunFailed},
		{Status: domain.RunError},
	}
	if n := countNotPassed(points); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestRunDuration_ZeroTimes(t *testing.T) {
	if d := runDuration(time.Time{}, time.Now()); d != 0 {
		t.Errorf("expected 0 for zero start, got %v", d)
	}
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if d := runDuration(start, start.Add(1500*time.Millisecond)); d != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", d)
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	expected := []string{
		"init", "validate", "run", "study",
		"vehicles", "missions", "cases", "scenarios", "results",
		"range", "constraint", "payload-range", "optimize", "version",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, flag := range []string{"workspace", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

func TestRootCmd_UnknownCommandIsUsageError(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"bogus"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !isUsageError(err) {
		t.Errorf("expected usage error, got: %v", err)
	}
}

func TestRootCmd_FlagParseErrorIsUsageError(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--bogus"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !isUsageError(err) {
		t.Errorf("expected usage error, got: %v", err)
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := runCmd(&rootFlags{})
	if cmd.Use != "run" {
		t.Errorf("expected Use=run, got %q", cmd.Use)
	}
	for _, flag := range []string{"case", "scenario", "no-save", "output", "watch"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on run command", flag)
		}
	}
}

func TestStudyCmd_Flags(t *testing.T) {
	cmd := studyCmd(&rootFlags{})
	for _, flag := range []string{"study", "scenario", "no-save", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on study command", flag)
		}
	}
}

func TestValidateCmd_Flags(t *testing.T) {
	cmd := validateCmd(&rootFlags{})
	for _, flag := range []string{"case", "scenario"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on validate command", flag)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd(&rootFlags{})
	for _, flag := range []string{"name", "force"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on init command", flag)
		}
	}
}

func TestRangeCmd_Flags(t *testing.T) {
	cmd := rangeCmd(&rootFlags{})
	for _, flag := range []string{"vehicle", "first-order", "eol", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on range command", flag)
		}
	}
}

func TestConstraintCmd_Flags(t *testing.T) {
	cmd := constraintCmd(&rootFlags{})
	for _, flag := range []string{"vehicle", "points", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on constraint command", flag)
		}
	}
}

func TestPayloadRangeCmd_Flags(t *testing.T) {
	cmd := payloadRangeCmd(&rootFlags{})
	for _, flag := range []string{"case", "scenario", "points", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on payload-range command", flag)
		}
	}
}

func TestOptimizeCmd_Flags(t *testing.T) {
	cmd := optimizeCmd(&rootFlags{})
	for _, flag := range []string{"case", "scenario", "max-range", "initial", "lo", "hi", "floor", "output"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on optimize command", flag)
		}
	}
}

func TestPrintBatteryResult_Pretty(t *testing.T) {
	res := opt.BatteryResult{
		BatteryMass:      1624.5,
		TakeoffMass:      4600.5,
		EnergyUsageKWh:   310.2,
		BatteryRemaining: 0.301,
		RangeKm:          402.7,
		Iterations:       58,
		Converged:        true,
	}

	var buf bytes.Buffer
	if err := printBatteryResult(&buf, "battery-sizing", "450wh", res, outputPretty); err != nil {
		t.Fatalf("printBatteryResult: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"battery-sizing", "450wh",
		"1624.5 kg", "4600.5 kg", "310.2 kWh", "0.301", "402.7 km",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty battery output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("converged result should not warn:\n%s", out)
	}
}

func TestPrintBatteryResult_WarnsWhenNotConverged(t *testing.T) {
	var buf bytes.Buffer
	res := opt.BatteryResult{BatteryMass: 1000, Iterations: 200}
	if err := printBatteryResult(&buf, "battery-sizing", "", res, outputPretty); err != nil {
		t.Fatalf("printBatteryResult: %v", err)
	}
	if !strings.Contains(buf.String(), "Warning: search stopped before converging") {
		t.Errorf("expected convergence warning:\n%s", buf.String())
	}
}

func TestPrintMaxRange_Pretty(t *testing.T) {
	res := opt.CruiseResult{
		CruiseKm:           321.9,
		RangeKm:            372.4,
		RangeWithReserveKm: 282.1,
		BatteryRemaining:   0.100,
		TimeMin:            131,
	}

	var buf bytes.Buffer
	if err := printMaxRange(&buf, "baseline", "", res, outputPretty); err != nil {
		t.Fatalf("printMaxRange: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"baseline", "321.9 km", "372.4 km", "282.1 km", "131 min"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty max-range output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Scenario") {
		t.Errorf("empty scenario should be omitted:\n%s", out)
	}
}

func TestPrintBatteryResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	res := opt.BatteryResult{BatteryMass: 1624.5, Converged: true}
	if err := printBatteryResult(&buf, "battery-sizing", "450wh", res, outputJSON); err != nil {
		t.Fatalf("printBatteryResult: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	battery, ok := payload["battery"].(map[string]any)
	if !ok {
		t.Fatalf("expected battery object in payload: %v", payload)
	}
	if battery["battery_mass_kg"] != 1624.5 {
		t.Errorf("battery_mass_kg = %v, want 1624.5", battery["battery_mass_kg"])
	}
}

func TestVehiclesCmd_Subcommands(t *testing.T) {
	cmd := vehiclesCmd(&rootFlags{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range []string{"list", "show"} {
		if !names[want] {
			t.Errorf("expected %q subcommand under vehicles", want)
		}
	}
}

func TestResultsCmd_Subcommands(t *testing.T) {
	cmd := resultsCmd(&rootFlags{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range []string{"list", "show", "series", "delete", "reindex"} {
		if !names[want] {
			t.Errorf("expected %q subcommand under results", want)
		}
	}
}

func TestResultsListCmd_RejectsUnknownKind(t *testing.T) {
	cmd := resultsListCmd(&rootFlags{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--kind", "bench"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !isUsageError(err) {
		t.Errorf("expected usage error, got: %v", err)
	}
}
