package domain

import "time"

// RunKind distinguishes single-case runs from study runs.
type RunKind string

const (
	RunCase  RunKind = "case"
	RunStudy RunKind = "study"
)

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	RunPassed RunStatus = "passed"
	RunFailed RunStatus = "failed"
	RunError  RunStatus = "error"
)

// Metrics is a named summary value set (canonical names like
// "range_with_reserve_km", values in the unit the name states).
type Metrics map[string]float64

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// ExtractResult is the outcome of a single extraction.
type ExtractResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SegmentTrace holds sampled flight state over one segment. All slices have
// the mission's control point count.
type SegmentTrace struct {
	Name string      `json:"name"`
	Kind SegmentKind `json:"kind"`

	Time          []float64 `json:"time_s"`
	Altitude      []float64 `json:"altitude_m"`
	Airspeed      []float64 `json:"airspeed_ms"`
	Density       []float64 `json:"density_kgm3"`
	Drag          []float64 `json:"drag_n"`
	Power         []float64 `json:"power_w"`
	BatteryEnergy []float64 `json:"battery_energy_j"`
	StateOfCharge []float64 `json:"state_of_charge"`
	Distance      []float64 `json:"distance_m"`

	Energy  float64 `json:"energy_j"`
	Reserve bool    `json:"reserve,omitempty"`
}

// RunArtifact is a persisted case run for reproducibility.
type RunArtifact struct {
	ID   string  `json:"id"`
	Kind RunKind `json:"kind"`

	Case     string `json:"case"`
	Vehicle  string `json:"vehicle"`
	Mission  string `json:"mission"`
	Scenario string `json:"scenario,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status RunStatus `json:"status"`
	Error  string    `json:"error,omitempty"`

	// Params are the merged overrides that were applied to the vehicle.
	Params Params `json:"params,omitempty"`

	Summary  Metrics        `json:"summary,omitempty"`
	Segments []SegmentTrace `json:"segments,omitempty"`

	Checks    []CheckResult     `json:"checks,omitempty"`
	Extracts  []ExtractResult   `json:"extracts,omitempty"`
	Extracted map[string]string `json:"extracted,omitempty"`
}

// ChecksPassed reports whether every check passed.
func (a *RunArtifact) ChecksPassed() bool {
	for _, c := range a.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// StudyPoint is one evaluated grid point of a study run.
type StudyPoint struct {
	Index   int       `json:"index"`
	Params  Params    `json:"params"`
	Summary Metrics   `json:"summary,omitempty"`
	Status  RunStatus `json:"status"`
	Error   string    `json:"error,omitempty"`
}

// RunRow is one run as recorded in the run index. It carries enough to list
// and filter runs without opening artifact files.
type RunRow struct {
	ID         string
	Kind       RunKind
	Name       string
	Vehicle    string
	Mission    string
	Scenario   string
	Status     RunStatus
	StartedAt  time.Time
	DurationMS int64
	File       string
}

// RunFilter narrows an index listing. Zero values match everything.
type RunFilter struct {
	Kind   RunKind
	Name   string
	Status RunStatus
	// Limit caps the number of rows returned, newest first. Zero means no cap.
	Limit int
}

// SeriesPoint is one grid point of a study flattened to a single metric.
type SeriesPoint struct {
	Index  int
	Params Params
	Value  float64
}

// StudyArtifact is a persisted study run.
type StudyArtifact struct {
	ID   string  `json:"id"`
	Kind RunKind `json:"kind"`

	Study    string `json:"study"`
	Case     string `json:"case"`
	Vehicle  string `json:"vehicle"`
	Mission  string `json:"mission"`
	Scenario string `json:"scenario,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status RunStatus `json:"status"`
	Error  string    `json:"error,omitempty"`

	Axes    []Axis       `json:"axes"`
	Metrics []string     `json:"metrics"`
	Points  []StudyPoint `json:"points"`
}
