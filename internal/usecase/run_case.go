package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/mission"
	"github.com/project-avie/avie/internal/ports"
	"github.com/project-avie/avie/internal/sizing"
	uccheck "github.com/project-avie/avie/internal/usecase/check"
	ucextract "github.com/project-avie/avie/internal/usecase/extract"
)

type RunCase struct {
	catalog ports.Catalog
	sim     *mission.Simulator
	store   ports.RunStore
	save    bool
}

type RunOption func(*RunCase)

// WithoutSave skips artifact persistence; watch mode and dry runs use it.
func WithoutSave() RunOption {
	return func(uc *RunCase) { uc.save = false }
}

func NewRunCase(cat ports.Catalog, sim *mission.Simulator, store ports.RunStore, opts ...RunOption) *RunCase {
	uc := &RunCase{
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

// Execute runs one case end to end: load, apply overrides, size, simulate,
// check, persist. The artifact is saved whenever the pipeline got far enough
// to produce one, pass or fail; the returned id is empty when saving was
// skipped or impossible.
func (uc *RunCase) Execute(ctx context.Context, caseName string, scenarioName string) (domain.RunArtifact, string, error) {
	cs, err := uc.catalog.LoadCase(caseName)
	if err != nil {
		return domain.RunArtifact{}, "", err
	}

	scenName, scenParams, err := uc.resolveScenario(scenarioName, &cs)
	if err != nil {
		return domain.RunArtifact{}, "", err
	}

	v, err := uc.catalog.LoadVehicle(cs.Vehicle)
	if err != nil {
		return domain.RunArtifact{}, "", err
	}
	m, err := uc.catalog.LoadMission(cs.Mission)
	if err != nil {
		return domain.RunArtifact{}, "", err
	}

	// scenario params first, case params on top
	params := domain.MergeParams(scenParams, cs.Params)

	artifact, evalErr := evaluateCase(ctx, uc.sim, &cs, v, &m, params, scenName)

	if !uc.save {
		return artifact, "", evalErr
	}

	id, saveErr := uc.store.SaveRun(artifact)
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

// resolveScenario picks the CLI override over the case's own scenario and
// loads it. No scenario anywhere is fine.
func (uc *RunCase) resolveScenario(override string, cs *domain.Case) (string, domain.Params, error) {
	name := override
	if name == "" {
		name = cs.Scenario
	}
	if name == "" {
		return "", nil, nil
	}

	scen, err := uc.catalog.LoadScenario(name)
	if err != nil {
		return "", nil, err
	}
	return scen.Name, scen.Params, nil
}

// evaluateCase is the shared pipeline body behind case runs and study grid
// points. Hard errors (unknown param, sizing, simulation) come back as the
// error; the artifact is still returned, status error, for persistence.
func evaluateCase(ctx context.Context, sim *mission.Simulator, cs *domain.Case, v domain.Vehicle, m *domain.Mission, params domain.Params, scenario string) (domain.RunArtifact, error) {
	artifact := domain.RunArtifact{
		Kind:      domain.RunCase,
		Case:      cs.Name,
		Vehicle:   cs.Vehicle,
		Mission:   cs.Mission,
		Scenario:  scenario,
		StartedAt: time.Now().UTC(),
		Params:    params,
	}

	fail := func(err error) (domain.RunArtifact, error) {
		artifact.Status = domain.RunError
		artifact.Error = err.Error()
		artifact.FinishedAt = time.Now().UTC()
		return artifact, err
	}

	// v is a value copy already, so overrides never touch the catalog's copy.
	if err := domain.ApplyParams(&v, params); err != nil {
		return fail(err)
	}
	if err := sizing.Apply(&v, cs.EffectiveSizing()); err != nil {
		return fail(err)
	}

	var res mission.Result
	var err error
	if m.VariableSegment() >= 0 {
		res, _, err = sim.SolveRange(ctx, &v, m)
	} else {
		res, err = sim.Fly(ctx, &v, m)
	}
	if err != nil {
		return fail(err)
	}

	artifact.Summary = mission.Summarize(&v, res)
	artifact.Segments = res.Segments

	doc, err := artifactDoc(&artifact)
	if err != nil {
		return fail(err)
	}

	artifact.Checks = uccheck.Evaluate(cs.Checks, artifact.Summary, doc)
	extracted, extractResults := ucextract.Apply(doc, cs.Extract)
	artifact.Extracts = extractResults
	artifact.Extracted = extracted

	artifact.FinishedAt = time.Now().UTC()
	if artifact.ChecksPassed() {
		artifact.Status = domain.RunPassed
	} else {
		artifact.Status = domain.RunFailed
	}
	return artifact, nil
}

// artifactDoc round-trips the artifact through JSON so path checks and
// extracts see exactly what gets persisted.
func artifactDoc(a *domain.RunArtifact) (any, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, &domain.OpError{Op: "run.document", Kind: domain.KindExecution, Err: err}
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &domain.OpError{Op: "run.document", Kind: domain.KindExecution, Err: err}
	}
	return doc, nil
}
