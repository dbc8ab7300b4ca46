package yamlcatalog

import (
	"strings"

	"github.com/project-avie/avie/internal/domain"
	"github.com/project-avie/avie/internal/units"
)

type yamlMission struct {
	Name                string        `yaml:"name"`
	Description         string        `yaml:"description"`
	ControlPoints       int           `yaml:"control_points"`
	TargetStateOfCharge float64       `yaml:"target_state_of_charge"`
	Segments            []yamlSegment `yaml:"segments"`
}

type yamlSegment struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	AltitudeStart units.Quantity `yaml:"altitude_start"`
	AltitudeEnd   units.Quantity `yaml:"altitude_end"`
	Altitude      units.Quantity `yaml:"altitude"`
	Airspeed      units.Quantity `yaml:"airspeed"`
	Rate          units.Quantity `yaml:"rate"`
	Distance      units.Quantity `yaml:"distance"`
	Duration      units.Quantity `yaml:"duration"`

	VariableRange bool `yaml:"variable_range"`
	Reserve       bool `yaml:"reserve"`
}

func (c *Catalog) LoadMission(nameOrPath string) (domain.Mission, error) {
	const op = "yamlcatalog.load_mission"

	path, err := c.resolve(op, c.paths.MissionsDir, nameOrPath)
	if err != nil {
		return domain.Mission{}, err
	}

	var y yamlMission
	if err := readYAML(op, path, &y); err != nil {
		return domain.Mission{}, err
	}

	m := mapMission(y)
	if err := m.Validate(); err != nil {
		return domain.Mission{}, err
	}
	return m, nil
}

func (c *Catalog) ListMissions() ([]domain.MissionRef, error) {
	const op = "yamlcatalog.list_missions"

	headers, paths, err := c.listHeaders(op, c.paths.MissionsDir)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.MissionRef, len(headers))
	for i, h := range headers {
		refs[i] = domain.MissionRef{
			Name:        h.Name,
			Path:        paths[i],
			Description: h.Description,
		}
	}
	return refs, nil
}

func mapMission(y yamlMission) domain.Mission {
	m := domain.Mission{
		Name:                y.Name,
		Description:         y.Description,
		ControlPoints:       y.ControlPoints,
		TargetStateOfCharge: y.TargetStateOfCharge,
		Segments:            make([]domain.Segment, 0, len(y.Segments)),
	}

	for _, s := range y.Segments {
		m.Segments = append(m.Segments, domain.Segment{
			Name:          s.Name,
			Kind:          domain.SegmentKind(strings.ToLower(strings.TrimSpace(s.Kind))),
			AltitudeStart: s.AltitudeStart.SI(),
			AltitudeEnd:   s.AltitudeEnd.SI(),
			Altitude:      s.Altitude.SI(),
			Airspeed:      s.Airspeed.SI(),
			Rate:          s.Rate.SI(),
			Distance:      s.Distance.SI(),
			Duration:      s.Duration.SI(),
			VariableRange: s.VariableRange,
			Reserve:       s.Reserve,
		})
	}
	return m
}
