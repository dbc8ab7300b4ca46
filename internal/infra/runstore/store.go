// Package runstore persists run artifacts as JSON files and keeps the
// SQLite run index in step with them.
package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/infra/runindex"
	"github.com/project-avie/avie/internal/ports"
)

const defaultRunsDir = "runs"

// IndexPath is the index database location relative to the workspace root.
const IndexPath = ".avie/index.db"

// Store writes one pretty-printed JSON file per run under the runs
// directory. The files are the source of truth; the index only accelerates
// listing and can be rebuilt from them.
type Store struct {
	rootDir     string
	runsDirName string
	index       *runindex.Index
	now         func() time.Time
}

type Option func(*Store)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(root string, cfg domain.Config, opts ...Option) (*Store, error) {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	ix, err := runindex.Open(filepath.Join(root, filepath.FromSlash(IndexPath)))
	if err != nil {
		return nil, err
	}

	s := &Store{
		rootDir:     root,
		runsDirName: runsDir,
		index:       ix,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var _ ports.RunStore = (*Store)(nil)

func (s *Store) Close() error {
	return s.index.Close()
}

func (s *Store) runsDir() string {
	return filepath.Join(s.rootDir, s.runsDirName)
}

// SaveRun writes a case run artifact and indexes it. The returned id names
// the artifact file (<id>.json).
func (s *Store) SaveRun(run domain.RunArtifact) (string, error) {
	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
		run.StartedAt = ts
	}

	id := runID(ts, run.Case)
	run.ID = id
	run.Kind = domain.RunCase

	if err := s.writeArtifact(id, run); err != nil {
		return "", err
	}

	// Index rows are derived data; Reindex repairs them if this fails.
	_ = s.index.Insert(caseRow(run), run.Summary)

	return id, nil
}

// SaveStudy writes a study artifact and indexes it.
func (s *Store) SaveStudy(run domain.StudyArtifact) (string, error) {
	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
		run.StartedAt = ts
	}

	id := runID(ts, run.Study)
	run.ID = id
	run.Kind = domain.RunStudy

	if err := s.writeArtifact(id, run); err != nil {
		return "", err
	}

	_ = s.index.Insert(studyRow(run), nil)

	return id, nil
}

func (s *Store) writeArtifact(id string, v any) error {
	dir := s.runsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	path := filepath.Join(dir, id+".json")
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// LoadRun reads a case run artifact by id.
func (s *Store) LoadRun(id string) (domain.RunArtifact, error) {
	var run domain.RunArtifact
	if err := s.readArtifact("runstore.load_run", id, &run); err != nil {
		return domain.RunArtifact{}, err
	}
	if run.Kind != domain.RunCase {
		return domain.RunArtifact{}, &domain.OpError{
			Op:   "runstore.load_run",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("run %q is a %s run", id, run.Kind),
		}
	}
	return run, nil
}

// LoadStudy reads a study artifact by id.
func (s *Store) LoadStudy(id string) (domain.StudyArtifact, error) {
	var run domain.StudyArtifact
	if err := s.readArtifact("runstore.load_study", id, &run); err != nil {
		return domain.StudyArtifact{}, err
	}
	if run.Kind != domain.RunStudy {
		return domain.StudyArtifact{}, &domain.OpError{
			Op:   "runstore.load_study",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("run %q is a %s run", id, run.Kind),
		}
	}
	return run, nil
}

func (s *Store) readArtifact(op, id string, dst any) error {
	path := filepath.Join(s.runsDir(), id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// List returns index rows newest first.
func (s *Store) List(f domain.RunFilter) ([]domain.RunRow, error) {
	return s.index.List(f)
}

// Delete removes the artifact file and its index rows.
func (s *Store) Delete(id string) error {
	path := filepath.Join(s.runsDir(), id+".json")
	if err := os.Remove(path); err != nil {
		return &domain.OpError{
			Op:   "runstore.delete",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	// The row may be missing when the index is stale; that is fine.
	if err := s.index.Delete(id); err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return err
	}
	return nil
}

func runID(ts time.Time, name string) string {
	slug := slugify(name)
	if slug == "" {
		slug = "run"
	}
	return ts.UTC().Format("20060102T150405Z") + "_" + slug
}

func caseRow(run domain.RunArtifact) domain.RunRow {
	return domain.RunRow{
		ID:         run.ID,
		Kind:       domain.RunCase,
		Name:       run.Case,
		Vehicle:    run.Vehicle,
		Mission:    run.Mission,
		Scenario:   run.Scenario,
		Status:     run.Status,
		StartedAt:  run.StartedAt,
		DurationMS: durationMS(run.StartedAt, run.FinishedAt),
		File:       run.ID + ".json",
	}
}

func studyRow(run domain.StudyArtifact) domain.RunRow {
	return domain.RunRow{
		ID:         run.ID,
		Kind:       domain.RunStudy,
		Name:       run.Study,
		Vehicle:    run.Vehicle,
		Mission:    run.Mission,
		Scenario:   run.Scenario,
		Status:     run.Status,
		StartedAt:  run.StartedAt,
		DurationMS: durationMS(run.StartedAt, run.FinishedAt),
		File:       run.ID + ".json",
	}
}

func durationMS(start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
