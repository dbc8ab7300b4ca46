package domain

import "fmt"

// SizingMode selects how the weights step closes the mass budget.
type SizingMode string

const (
	// SizingFixedBattery derives MTOW from empty + battery + cargo.
	SizingFixedBattery SizingMode = "fixed-battery"
	// SizingFixedMTOW derives battery mass from MTOW - empty - cargo.
	SizingFixedMTOW SizingMode = "fixed-mtow"
)

// CheckOp is a comparison operator for case checks.
type CheckOp string

const (
	CheckGT     CheckOp = "gt"
	CheckGE     CheckOp = "ge"
	CheckLT     CheckOp = "lt"
	CheckLE     CheckOp = "le"
	CheckEQ     CheckOp = "eq"
	CheckExists CheckOp = "exists"
)

// CheckSpec is a pass/fail condition evaluated after a run. Exactly one of
// Metric (a summary metric name) or Path (a JSONPath into the run artifact
// document) is set.
type CheckSpec struct {
	Name   string
	Metric string
	Path   string

	Op    CheckOp
	Value float64
	// Tolerance is the relative tolerance for eq checks (default 1e-9).
	Tolerance float64
}

// ExtractSpec maps result names to JSONPath expressions evaluated against
// the run artifact document.
type ExtractSpec map[string]string

// Case binds a vehicle and a mission into a named, repeatable test case.
type Case struct {
	Name        string
	Description string

	Vehicle  string
	Mission  string
	Scenario string // optional; CLI may override

	Sizing SizingMode // defaults to SizingFixedBattery

	Params  Params
	Checks  []CheckSpec
	Extract ExtractSpec
}

// CaseRef is a lightweight reference to a case file on disk.
type CaseRef struct {
	Name        string
	Path        string
	Description string
	Vehicle     string
	Mission     string
}

// Validate checks reference fields and check specs.
func (c *Case) Validate() error {
	if c.Name == "" {
		return invalidCase("", "name is required")
	}
	if c.Vehicle == "" {
		return invalidCase(c.Name, "vehicle is required")
	}
	if c.Mission == "" {
		return invalidCase(c.Name, "mission is required")
	}

	switch c.Sizing {
	case "", SizingFixedBattery, SizingFixedMTOW:
	default:
		return invalidCase(c.Name, fmt.Sprintf("unknown sizing mode %q", c.Sizing))
	}

	for p := range c.Params {
		if !HasParam(p) {
			return &OpError{
				Op:   "case.validate",
				Kind: KindMissingParam,
				Err:  fmt.Errorf("%s: unknown parameter path: %s", c.Name, p),
			}
		}
	}

	for i := range c.Checks {
		if err := c.Checks[i].validate(); err != nil {
			return invalidCase(c.Name, err.Error())
		}
	}
	return nil
}

// EffectiveSizing resolves the default sizing mode.
func (c *Case) EffectiveSizing() SizingMode {
	if c.Sizing == "" {
		return SizingFixedBattery
	}
	return c.Sizing
}

func (cs *CheckSpec) validate() error {
	if cs.Name == "" {
		return fmt.Errorf("check: name is required")
	}
	if (cs.Metric == "") == (cs.Path == "") {
		return fmt.Errorf("check %q: exactly one of metric or path is required", cs.Name)
	}

	switch cs.Op {
	case CheckGT, CheckGE, CheckLT, CheckLE, CheckEQ:
	case CheckExists:
		if cs.Path == "" {
			return fmt.Errorf("check %q: exists requires a path", cs.Name)
		}
	default:
		return fmt.Errorf("check %q: unknown op %q", cs.Name, cs.Op)
	}
	return nil
}

func invalidCase(name, msg string) error {
	if name != "" {
		msg = name + ": " + msg
	}
	return &OpError{
		Op:   "case.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%s", msg),
	}
}
