package yamlcatalog

import (
	"strings"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/units"
)

type yamlCase struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Vehicle  string `yaml:"vehicle"`
	Mission  string `yaml:"mission"`
	Scenario string `yaml:"scenario"`
	Sizing   string `yaml:"sizing"`

	Params  map[string]units.Quantity `yaml:"params"`
	Checks  []yamlCheck               `yaml:"checks"`
	Extract map[string]string         `yaml:"extract"`
}

type yamlCheck struct {
	Name   string `yaml:"name"`
	Metric string `yaml:"metric"`
	Path   string `yaml:"path"`

	Op        string         `yaml:"op"`
	Value     units.Quantity `yaml:"value"`
	Tolerance float64        `yaml:"tolerance"`
}

func (c *Catalog) LoadCase(nameOrPath string) (domain.Case, error) {
	const op = "yamlcatalog.load_case"

	path, err := c.resolve(op, c.paths.CasesDir, nameOrPath)
	if err != nil {
		return domain.Case{}, err
	}

	var y yamlCase
	if err := readYAML(op, path, &y); err != nil {
		return domain.Case{}, err
	}

	cs := mapCase(y)
	if err := cs.Validate(); err != nil {
		return domain.Case{}, err
	}
	return cs, nil
}

func (c *Catalog) ListCases() ([]domain.CaseRef, error) {
	const op = "yamlcatalog.list_cases"

	headers, paths, err := c.listHeaders(op, c.paths.CasesDir)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.CaseRef, len(headers))
	for i, h := range headers {
		refs[i] = domain.CaseRef{
			Name:        h.Name,
			Path:        paths[i],
			Description: h.Description,
			Vehicle:     h.Vehicle,
			Mission:     h.Mission,
		}
	}
	return refs, nil
}

func mapCase(y yamlCase) domain.Case {
	cs := domain.Case{
		Name:        y.Name,
		Description: y.Description,
		Vehicle:     y.Vehicle,
		Mission:     y.Mission,
		Scenario:    y.Scenario,
		Sizing:      domain.SizingMode(strings.ToLower(strings.TrimSpace(y.Sizing))),
		Params:      mapParams(y.Params),
		Extract:     domain.ExtractSpec(y.Extract),
	}

	for _, ck := range y.Checks {
		cs.Checks = append(cs.Checks, domain.CheckSpec{
			Name:      ck.Name,
			Metric:    ck.Metric,
			Path:      ck.Path,
			Op:        domain.CheckOp(strings.ToLower(strings.TrimSpace(ck.Op))),
			Value:     ck.Value.SI(),
			Tolerance: ck.Tolerance,
		})
	}
	return cs
}
