// Package units parses and converts scalar quantities with unit suffixes.
//
// Workspace YAML accepts either bare numbers (already SI) or strings like
// "180 mph", "2300 lb", "450 Wh/kg". Conversion is factor-only; canonical
// values are SI (m, s, kg, J, W).
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// factors maps a unit name to its multiplier into SI.
var factors = map[string]float64{
	// length
	"m":   1,
	"km":  1000,
	"ft":  0.3048,
	"mi":  1609.344,
	"nmi": 1852,

	// area
	"m2":  1,
	"ft2": 0.09290304,

	// speed
	"m/s":    1,
	"km/h":   1000.0 / 3600.0,
	"kph":    1000.0 / 3600.0,
	"mph":    0.44704,
	"kt":     1852.0 / 3600.0,
	"kts":    1852.0 / 3600.0,
	"ft/min": 0.3048 / 60.0,
	"ft/s":   0.3048,

	// mass
	"g":   0.001,
	"kg":  1,
	"lb":  0.45359237,
	"lbs": 0.45359237,
	"t":   1000,

	// time
	"s":   1,
	"min": 60,
	"h":   3600,

	// energy
	"J":   1,
	"kJ":  1e3,
	"MJ":  1e6,
	"Wh":  3600,
	"kWh": 3.6e6,

	// power
	"W":  1,
	"kW": 1e3,
	"MW": 1e6,
	"hp": 745.699872,

	// specific energy
	"J/kg":  1,
	"kJ/kg": 1e3,
	"Wh/kg": 3600,

	// angle
	"rad": 1,
	"deg": math.Pi / 180,
}

// Factor returns the SI multiplier for a unit name.
func Factor(unit string) (float64, error) {
	f, ok := factors[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	return f, nil
}

// Parse reads a quantity literal: a number, optionally followed by a unit.
// "180 mph" and "180mph" are both accepted; a bare number is taken as SI.
func Parse(s string) (Quantity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	numEnd := len(trimmed)
	for i, r := range trimmed {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E' {
			continue
		}
		numEnd = i
		break
	}

	num := strings.TrimSpace(trimmed[:numEnd])
	unit := strings.TrimSpace(trimmed[numEnd:])

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: bad number %q", s, num)
	}
	if unit == "" {
		return Quantity(v), nil
	}

	f, err := Factor(unit)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return Quantity(v * f), nil
}

// Convert expresses an SI value in the named unit.
func Convert(si float64, unit string) (float64, error) {
	f, err := Factor(unit)
	if err != nil {
		return 0, err
	}
	return si / f, nil
}

// In is Convert for display paths where the unit is a compile-time constant.
// It panics on unknown units.
func In(si float64, unit string) float64 {
	v, err := Convert(si, unit)
	if err != nil {
		panic(err)
	}
	return v
}

// Quantity is an SI scalar that unmarshals from either a YAML number or a
// unit-suffixed string.
type Quantity float64

// SI returns the canonical SI value.
func (q Quantity) SI() float64 { return float64(q) }

func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: quantity must be a scalar", value.Line)
	}

	switch value.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad number %q", value.Line, value.Value)
		}
		*q = Quantity(v)
		return nil

	case "!!str":
		parsed, err := Parse(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %v", value.Line, err)
		}
		*q = parsed
		return nil

	case "!!null":
		*q = 0
		return nil

	default:
		return fmt.Errorf("line %d: quantity must be a number or string, got %s", value.Line, value.Tag)
	}
}
