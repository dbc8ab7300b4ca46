package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/project-avie/avie/internal/domain"
)

func newTestStore(t *testing.T, root string) *Store {
	t.Helper()
	store, err := New(root, domain.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func caseArtifact(name string, start time.Time) domain.RunArtifact {
	return domain.RunArtifact{
		Case:       name,
		Vehicle:    "c208b-electric",
		Mission:    "full-mission",
		Scenario:   "450wh",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Status:     domain.RunPassed,
		Summary: domain.Metrics{
			"range_km":          180.5,
			"battery_remaining": 0.31,
		},
		Checks: []domain.CheckResult{
			{Name: "battery floor", Passed: true, Message: "0.31 > 0.30"},
		},
	}
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	store := newTestStore(t, tmp)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(caseArtifact("baseline", start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	if id != "20260203T101112Z_baseline" {
		t.Fatalf("unexpected id %q", id)
	}

	wantFile := filepath.Join(tmp, "runs", id+".json")
	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("expected artifact at %s: %v", wantFile, err)
	}

	var decoded domain.RunArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != id {
		t.Fatalf("expected id embedded in artifact, got %q", decoded.ID)
	}
	if decoded.Kind != domain.RunCase {
		t.Fatalf("expected case kind, got %q", decoded.Kind)
	}
	if decoded.Summary["range_km"] != 180.5 {
		t.Fatalf("expected summary preserved, got %+v", decoded.Summary)
	}

	rows, err := store.List(domain.RunFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != id {
		t.Fatalf("expected indexed row, got %+v", rows)
	}
	if rows[0].DurationMS != 2000 {
		t.Fatalf("expected 2000 ms duration, got %d", rows[0].DurationMS)
	}
}

func TestSaveRun_SlugifiesCaseName(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(caseArtifact("Max Range / EOL", start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260203T101112Z_max-range-eol" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestLoadRun_RoundTrip(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(caseArtifact("baseline", start))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	run, err := store.LoadRun(id)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if run.Case != "baseline" || len(run.Checks) != 1 {
		t.Fatalf("unexpected artifact: %+v", run)
	}

	_, err = store.LoadRun("20990101T000000Z_absent")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func studyArtifact(name string, start time.Time) domain.StudyArtifact {
	return domain.StudyArtifact{
		Study:      name,
		Case:       "baseline",
		Vehicle:    "c208b-electric",
		Mission:    "full-mission",
		StartedAt:  start,
		FinishedAt: start.Add(5 * time.Second),
		Status:     domain.RunPassed,
		Axes:       []domain.Axis{{Param: "mass.battery", From: 400, To: 1100, Steps: 3}},
		Metrics:    []string{"range_with_reserve_km"},
		Points: []domain.StudyPoint{
			{Index: 0, Params: domain.Params{"mass.battery": 400}, Summary: domain.Metrics{"range_with_reserve_km": 60}, Status: domain.RunPassed},
			{Index: 1, Params: domain.Params{"mass.battery": 750}, Summary: domain.Metrics{"range_with_reserve_km": 140}, Status: domain.RunPassed},
			{Index: 2, Params: domain.Params{"mass.battery": 1100}, Summary: domain.Metrics{"range_with_reserve_km": 205}, Status: domain.RunPassed},
		},
	}
}

func TestSaveStudy_AndSeries(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	start := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveStudy(studyArtifact("mtow-range", start)); err != nil {
		t.Fatalf("SaveStudy: %v", err)
	}
	// A newer run of the same study wins.
	newer := studyArtifact("mtow-range", start.Add(time.Hour))
	newer.Points[2].Summary["range_with_reserve_km"] = 210
	if _, err := store.SaveStudy(newer); err != nil {
		t.Fatalf("SaveStudy newer: %v", err)
	}

	series, err := store.Series("mtow-range", "range_with_reserve_km")
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}
	if series[2].Value != 210 {
		t.Fatalf("expected newest study values, got %f", series[2].Value)
	}
	if series[0].Params["mass.battery"] != 400 {
		t.Fatalf("expected axis params carried, got %+v", series[0].Params)
	}

	if _, err := store.Series("mtow-range", "absent_metric"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound for absent metric, got: %v", err)
	}
	if _, err := store.Series("absent-study", "range_with_reserve_km"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound for absent study, got: %v", err)
	}
}

func TestLoadRun_RejectsStudyArtifact(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	start := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	id, err := store.SaveStudy(studyArtifact("mtow-range", start))
	if err != nil {
		t.Fatalf("SaveStudy: %v", err)
	}

	if _, err := store.LoadRun(id); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
	if _, err := store.LoadStudy(id); err != nil {
		t.Fatalf("LoadStudy: %v", err)
	}
}

func TestDelete_RemovesFileAndIndexRow(t *testing.T) {
	tmp := t.TempDir()
	store := newTestStore(t, tmp)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(caseArtifact("baseline", start))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "runs", id+".json")); !os.IsNotExist(err) {
		t.Fatalf("expected artifact file removed")
	}
	rows, err := store.List(domain.RunFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty index, got %+v", rows)
	}

	if err := store.Delete(id); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound for second delete, got: %v", err)
	}
}

func TestReindex_RebuildsFromArtifacts(t *testing.T) {
	tmp := t.TempDir()

	store, err := New(tmp, domain.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	if _, err := store.SaveRun(caseArtifact("baseline", start)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := store.SaveStudy(studyArtifact("mtow-range", start.Add(time.Minute))); err != nil {
		t.Fatalf("SaveStudy: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Lose the index entirely; the artifacts remain the source of truth.
	if err := os.RemoveAll(filepath.Join(tmp, ".avie")); err != nil {
		t.Fatalf("remove index: %v", err)
	}

	store = newTestStore(t, tmp)
	rows, err := store.List(domain.RunFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty index after loss, got %d rows", len(rows))
	}

	n, err := store.Reindex()
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 runs indexed, got %d", n)
	}

	rows, err = store.List(domain.RunFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Kind != domain.RunStudy || rows[0].Name != "mtow-range" {
		t.Fatalf("expected newest study row first, got %+v", rows[0])
	}
}
