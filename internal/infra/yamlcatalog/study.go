package yamlcatalog

import (
	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/units"
)

type yamlStudy struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Case     string     `yaml:"case"`
	Axes     []yamlAxis `yaml:"axes"`
	Metrics  []string   `yaml:"metrics"`
	Parallel int        `yaml:"parallel"`
}

type yamlAxis struct {
	Param  string           `yaml:"param"`
	Values []units.Quantity `yaml:"values"`
	From   units.Quantity   `yaml:"from"`
	To     units.Quantity   `yaml:"to"`
	Steps  int              `yaml:"steps"`
}

func (c *Catalog) LoadStudy(nameOrPath string) (domain.Study, error) {
	const op = "yamlcatalog.load_study"

	path, err := c.resolve(op, c.paths.StudiesDir, nameOrPath)
	if err != nil {
		return domain.Study{}, err
	}

	var y yamlStudy
	if err := readYAML(op, path, &y); err != nil {
		return domain.Study{}, err
	}

	s := mapStudy(y)
	if err := s.Validate(); err != nil {
		return domain.Study{}, err
	}
	return s, nil
}

func (c *Catalog) ListStudies() ([]domain.StudyRef, error) {
	const op = "yamlcatalog.list_studies"

	headers, paths, err := c.listHeaders(op, c.paths.StudiesDir)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.StudyRef, len(headers))
	for i, h := range headers {
		refs[i] = domain.StudyRef{
			Name:        h.Name,
			Path:        paths[i],
			Description: h.Description,
			Case:        h.Case,
		}
	}
	return refs, nil
}

func mapStudy(y yamlStudy) domain.Study {
	s := domain.Study{
		Name:        y.Name,
		Description: y.Description,
		Case:        y.Case,
		Metrics:     y.Metrics,
		Parallel:    y.Parallel,
	}

	for _, a := range y.Axes {
		ax := domain.Axis{
			Param: a.Param,
			From:  a.From.SI(),
			To:    a.To.SI(),
			Steps: a.Steps,
		}
		for _, v := range a.Values {
			ax.Values = append(ax.Values, v.SI())
		}
		s.Axes = append(s.Axes, ax)
	}
	return s
}
