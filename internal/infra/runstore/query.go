package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/project-avie/avie/internal/domain"
)

// Series flattens the newest run of the named study to one metric per grid
// point. Points that did not evaluate (or did not collect the metric) are
// skipped.
func (s *Store) Series(study, metric string) ([]domain.SeriesPoint, error) {
	row, err := s.index.Latest(domain.RunStudy, study)
	if err != nil {
		return nil, err
	}

	art, err := s.LoadStudy(row.ID)
	if err != nil {
		return nil, err
	}

	var out []domain.SeriesPoint
	for _, pt := range art.Points {
		v, ok := pt.Summary[metric]
		if !ok {
			continue
		}
		out = append(out, domain.SeriesPoint{
			Index:  pt.Index,
			Params: pt.Params,
			Value:  v,
		})
	}

	if len(out) == 0 {
		return nil, &domain.OpError{
			Op:   "runstore.series",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("study %q collected no values for metric %q", study, metric),
		}
	}
	return out, nil
}

// artifactProbe reads the index-relevant fields of either artifact shape.
type artifactProbe struct {
	ID       string           `json:"id"`
	Kind     domain.RunKind   `json:"kind"`
	Case     string           `json:"case"`
	Study    string           `json:"study"`
	Vehicle  string           `json:"vehicle"`
	Mission  string           `json:"mission"`
	Scenario string           `json:"scenario"`
	Status   domain.RunStatus `json:"status"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary domain.Metrics `json:"summary"`
}

// Reindex rebuilds the index from the artifact files on disk. Unreadable
// files are skipped; the return value counts the runs indexed.
func (s *Store) Reindex() (int, error) {
	if err := s.index.Clear(); err != nil {
		return 0, err
	}

	dir := s.runsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, &domain.OpError{
			Op:   "runstore.reindex",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var p artifactProbe
		if err := json.Unmarshal(b, &p); err != nil {
			continue
		}
		if p.ID == "" {
			p.ID = strings.TrimSuffix(e.Name(), ".json")
		}

		row := domain.RunRow{
			ID:         p.ID,
			Kind:       p.Kind,
			Name:       p.Case,
			Vehicle:    p.Vehicle,
			Mission:    p.Mission,
			Scenario:   p.Scenario,
			Status:     p.Status,
			StartedAt:  p.StartedAt,
			DurationMS: durationMS(p.StartedAt, p.FinishedAt),
			File:       e.Name(),
		}

		var metrics domain.Metrics
		switch p.Kind {
		case domain.RunStudy:
			row.Name = p.Study
		case domain.RunCase:
			metrics = p.Summary
		default:
			continue
		}

		if err := s.index.Insert(row, metrics); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
