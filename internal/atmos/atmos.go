// Package atmos models the standard atmosphere in the troposphere.
//
// The model is a linear temperature gradient from sea level to the
// tropopause with the matching hydrostatic density profile. It is only
// valid up to 11 km; requests above that return an error rather than
// extrapolating, since a silently wrong density corrupts every analysis
// downstream.
package atmos

import (
	"fmt"
	"math"

	"github.com/project-avie/avie/internal/domain"
)

const (
	// SeaLevelTemperature is the mean sea level temperature. [K]
	SeaLevelTemperature = 288.16
	// SeaLevelDensity is the mean sea level air density. [kg/m^3]
	SeaLevelDensity = 1.225
	// GasConstant is the specific gas constant of air. [J/(kg K)]
	GasConstant = 287.0
	// HeatCapacityRatio is the adiabatic index of air.
	HeatCapacityRatio = 1.4
	// MaxAltitude is the model ceiling (tropopause). [m]
	MaxAltitude = 11000.0

	tropopauseTemperature = 216.7
)

// tempGradient is the linear lapse rate of the troposphere. [K/m]
var tempGradient = (tropopauseTemperature - SeaLevelTemperature) / MaxAltitude

// State holds atmospheric conditions at one altitude.
type State struct {
	Altitude     float64 // [m]
	Temperature  float64 // [K]
	Density      float64 // [kg/m^3]
	SpeedOfSound float64 // [m/s]
}

// At evaluates the atmosphere at the given altitude in meters. Negative
// altitudes clamp to sea level; altitudes above MaxAltitude are an error.
func At(altitude float64) (State, error) {
	if altitude > MaxAltitude {
		return State{}, &domain.OpError{
			Op:   "atmos.at",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("altitude %.0f m exceeds the %d m model ceiling", altitude, int(MaxAltitude)),
		}
	}
	if altitude < 0 {
		altitude = 0
	}

	temperature := SeaLevelTemperature + tempGradient*altitude
	density := SeaLevelDensity * math.Pow(temperature/SeaLevelTemperature,
		-(domain.Gravity/(tempGradient*GasConstant)+1))

	return State{
		Altitude:     altitude,
		Temperature:  temperature,
		Density:      density,
		SpeedOfSound: math.Sqrt(HeatCapacityRatio * GasConstant * temperature),
	}, nil
}

// DynamicPressure is the freestream dynamic pressure for the given density
// and true airspeed. [Pa]
func DynamicPressure(density, airspeed float64) float64 {
	return 0.5 * density * airspeed * airspeed
}

// ThrustLapse estimates the available-thrust ratio relative to sea level
// static conditions for the given flight state, after Mattingly's
// subsonic propeller correlation. At sea level and zero airspeed the
// lapse is 1.
func ThrustLapse(st State, airspeed float64) float64 {
	delta := math.Pow(1-0.00000687535*st.Altitude, 5.2561)
	tempF := (st.Temperature-273.15)*9/5 + 32
	theta := (tempF + 459.67) / 518.69
	sigma := delta / theta
	mach := airspeed / st.SpeedOfSound
	return (0.568 + 0.25*math.Pow(1.2-mach, 3)) * math.Pow(sigma, 0.6)
}
