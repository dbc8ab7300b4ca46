package domain

// Scenario is a named, reusable set of parameter overrides, e.g. a battery
// technology level (450wh) or an end-of-life derate. Case params are applied
// on top of the scenario's.
type Scenario struct {
	Name        string
	Description string
	Params      Params
}

// ScenarioRef is a lightweight reference to a scenario file on disk.
type ScenarioRef struct {
	Name        string
	Path        string
	Description string
}
