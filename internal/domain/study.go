package domain

import "fmt"

// Axis is one swept parameter of a study. Either Values is set explicitly or
// From/To/Steps describe an inclusive linear spacing. JSON tags cover the
// axis snapshot embedded in study artifacts.
type Axis struct {
	Param  string    `json:"param"`
	Values []float64 `json:"values,omitempty"`
	From   float64   `json:"from,omitempty"`
	To     float64   `json:"to,omitempty"`
	Steps  int       `json:"steps,omitempty"`
}

// Expand returns the axis sample values in evaluation order.
func (a *Axis) Expand() []float64 {
	if len(a.Values) > 0 {
		out := make([]float64, len(a.Values))
		copy(out, a.Values)
		return out
	}

	out := make([]float64, a.Steps)
	if a.Steps == 1 {
		out[0] = a.From
		return out
	}
	step := (a.To - a.From) / float64(a.Steps-1)
	for i := range out {
		out[i] = a.From + float64(i)*step
	}
	return out
}

func (a *Axis) validate() error {
	if a.Param == "" {
		return fmt.Errorf("axis: param is required")
	}
	if !HasParam(a.Param) {
		return fmt.Errorf("axis: unknown parameter path: %s", a.Param)
	}
	if len(a.Values) > 0 {
		return nil
	}
	if a.Steps < 2 {
		return fmt.Errorf("axis %s: steps must be at least 2 (or give explicit values)", a.Param)
	}
	if a.From == a.To {
		return fmt.Errorf("axis %s: from and to must differ", a.Param)
	}
	return nil
}

// Study sweeps one or two parameters over a base case and collects summary
// metrics at every grid point.
type Study struct {
	Name        string
	Description string

	Case    string
	Axes    []Axis
	Metrics []string

	// Parallel caps concurrent point evaluations; zero means DefaultParallel.
	Parallel int
}

// StudyRef is a lightweight reference to a study file on disk.
type StudyRef struct {
	Name        string
	Path        string
	Description string
	Case        string
}

// DefaultParallel is the study worker cap used when Parallel is zero.
const DefaultParallel = 4

// DefaultStudyMetric is collected when a study names no metrics.
const DefaultStudyMetric = "range_with_reserve_km"

// Validate checks the axes and references.
func (s *Study) Validate() error {
	if s.Name == "" {
		return invalidStudy("", "name is required")
	}
	if s.Case == "" {
		return invalidStudy(s.Name, "case is required")
	}
	if len(s.Axes) == 0 {
		return invalidStudy(s.Name, "at least one axis is required")
	}
	if len(s.Axes) > 2 {
		return invalidStudy(s.Name, "a study handles a maximum of two axes")
	}
	for i := range s.Axes {
		if err := s.Axes[i].validate(); err != nil {
			return invalidStudy(s.Name, err.Error())
		}
	}
	if s.Parallel < 0 {
		return invalidStudy(s.Name, "parallel must not be negative")
	}
	return nil
}

// GridPoint is one evaluation of the study grid.
type GridPoint struct {
	Index  int
	Params Params
}

// Grid expands the axes row-major (second axis fastest), mirroring the
// nested iteration order of a two-parameter sweep.
func (s *Study) Grid() []GridPoint {
	first := s.Axes[0].Expand()
	if len(s.Axes) == 1 {
		out := make([]GridPoint, len(first))
		for i, v := range first {
			out[i] = GridPoint{Index: i, Params: Params{s.Axes[0].Param: v}}
		}
		return out
	}

	second := s.Axes[1].Expand()
	out := make([]GridPoint, 0, len(first)*len(second))
	for _, a := range first {
		for _, b := range second {
			out = append(out, GridPoint{
				Index: len(out),
				Params: Params{
					s.Axes[0].Param: a,
					s.Axes[1].Param: b,
				},
			})
		}
	}
	return out
}

// MetricNames resolves the default metric set.
func (s *Study) MetricNames() []string {
	if len(s.Metrics) > 0 {
		return s.Metrics
	}
	return []string{DefaultStudyMetric}
}

// Workers resolves the default parallelism.
func (s *Study) Workers() int {
	if s.Parallel > 0 {
		return s.Parallel
	}
	return DefaultParallel
}

func invalidStudy(name, msg string) error {
	if name != "" {
		msg = name + ": " + msg
	}
	return &OpError{
		Op:   "study.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%s", msg),
	}
}
