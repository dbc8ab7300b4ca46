package yamlcatalog

import (
	"fmt"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/units"
)

type yamlScenario struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Params      map[string]units.Quantity `yaml:"params"`
}

func (c *Catalog) LoadScenario(nameOrPath string) (domain.Scenario, error) {
	const op = "yamlcatalog.load_scenario"

	path, err := c.resolve(op, c.paths.ScenariosDir, nameOrPath)
	if err != nil {
		return domain.Scenario{}, err
	}

	var y yamlScenario
	if err := readYAML(op, path, &y); err != nil {
		return domain.Scenario{}, err
	}

	if y.Name == "" {
		return domain.Scenario{}, invalidField(op, path, "name", "scenario name is required")
	}

	s := domain.Scenario{
		Name:        y.Name,
		Description: y.Description,
		Params:      mapParams(y.Params),
	}

	for p := range s.Params {
		if !domain.HasParam(p) {
			return domain.Scenario{}, &domain.OpError{
				Op:   op,
				Kind: domain.KindMissingParam,
				Path: path,
				Err:  fmt.Errorf("%s: unknown parameter path: %s", s.Name, p),
			}
		}
	}
	return s, nil
}

func (c *Catalog) ListScenarios() ([]domain.ScenarioRef, error) {
	const op = "yamlcatalog.list_scenarios"

	headers, paths, err := c.listHeaders(op, c.paths.ScenariosDir)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.ScenarioRef, len(headers))
	for i, h := range headers {
		refs[i] = domain.ScenarioRef{
			Name:        h.Name,
			Path:        paths[i],
			Description: h.Description,
		}
	}
	return refs, nil
}
