package usecase

import (
	"context"
	"time"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/study"
)

type RunStudy struct {
	catalog ports.Catalog
	sim     *mission.Simulator
	store   ports.RunStore
	save    bool
}

type StudyOption func(*RunStudy)

// WithoutStudySave skips artifact persistence.
func WithoutStudySave() StudyOption {
	return func(uc *RunStudy) { uc.save = false }
}

func NewRunStudy(cat ports.Catalog, sim *mission.Simulator, store ports.RunStore, opts ...StudyOption) *RunStudy {
	uc := &RunStudy{
		catalog: cat,
		sim:     sim,
		store:   store,
		save:    true,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute sweeps the study grid over its base case. Axis values are applied
// on top of scenario and case params, so the sweep always wins. Check
// failures mark their point failed; the first hard error cancels the
// remaining points and the artifact keeps whatever completed.
func (uc *RunStudy) Execute(ctx context.Context, studyName string, scenarioName string) (domain.StudyArtifact, string, error) {
	st, err := uc.catalog.LoadStudy(studyName)
	if err != nil {
		return domain.StudyArtifact{}, "", err
	}
	cs, err := uc.catalog.LoadCase(st.Case)
	if err != nil {
		return domain.StudyArtifact{}, "", err
	}

	scenName := scenarioName
	if scenName == "" {
		scenName = cs.Scenario
	}
	var scenParams domain.Params
	if scenName != "" {
		scen, err := uc.catalog.LoadScenario(scenName)
		if err != nil {
			return domain.StudyArtifact{}, "", err
		}
		scenName = scen.Name
		scenParams = scen.Params
	}

	v, err := uc.catalog.LoadVehicle(cs.Vehicle)
	if err != nil {
		return domain.StudyArtifact{}, "", err
	}
	m, err := uc.catalog.LoadMission(cs.Mission)
	if err != nil {
		return domain.StudyArtifact{}, "", err
	}

	base := domain.MergeParams(scenParams, cs.Params)
	metrics := st.MetricNames()

	artifact := domain.StudyArtifact{
		Kind:      domain.RunStudy,
		Study:     st.Name,
		Case:      cs.Name,
		Vehicle:   cs.Vehicle,
		Mission:   cs.Mission,
		Scenario:  scenName,
		StartedAt: time.Now().UTC(),
		Axes:      st.Axes,
		Metrics:   metrics,
	}

	points, evalErr := study.Run(ctx, st.Grid(), st.Workers(), func(ctx context.Context, pt domain.GridPoint) (domain.StudyPoint, error) {
		params := domain.MergeParams(base, pt.Params)
		art, err := evaluateCase(ctx, uc.sim, &cs, v, &m, params, scenName)
		if err != nil {
			return domain.StudyPoint{}, err
		}
		return domain.StudyPoint{
			Index:   pt.Index,
			Params:  pt.Params,
			Summary: collectMetrics(art.Summary, metrics),
			Status:  art.Status,
		}, nil
	})

	artifact.FinishedAt = time.Now().UTC()
	if evalErr != nil {
		artifact.Status = domain.RunError
		artifact.Error = evalErr.Error()
		artifact.Points = study.Completed(points)
	} else {
		artifact.Points = points
		artifact.Status = statusOf(points)
	}

	if !uc.save {
		return artifact, "", evalErr
	}

	id, saveErr := uc.store.SaveStudy(artifact)
	if id != "" {
		artifact.ID = id
	}
	if evalErr != nil {
		return artifact, id, evalErr
	}
	if saveErr != nil {
		return artifact, id, saveErr
	}
	return artifact, id, nil
}

func collectMetrics(summary domain.Metrics, names []string) domain.Metrics {
	out := domain.Metrics{}
	for _, n := range names {
		if v, ok := summary[n]; ok {
			out[n] = v
		}
	}
	return out
}

func statusOf(points []domain.StudyPoint) domain.RunStatus {
	for _, p := range points {
		if p.Status != domain.RunPassed {
			return domain.RunFailed
		}
	}
	return domain.RunPassed
}
