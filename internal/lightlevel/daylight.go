package lightlevel

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// DaylightContext describes the theoretical outdoor light situation,
// used to annotate processed readings so consumers can distinguish
// natural from artificial light.
type DaylightContext struct {
	TheoreticalOutdoorLux float64 `json:"theoretical_outdoor_lux"`
	SunAltitudeDegrees    float64 `json:"sun_altitude_degrees"`
	IsDaytime             bool    `json:"is_daytime"`
	IsGoldenHour          bool    `json:"is_golden_hour"`
}

// ComputeDaylight calculates sun position and theoretical outdoor lux
// for a location and instant
func ComputeDaylight(lat, lon float64, t time.Time) *DaylightContext {
	position := suncalc.GetPosition(t, lat, lon)

	altitudeDegrees := position.Altitude * (180.0 / math.Pi)

	// Simplified clear-sky model: ~120k lux with the sun overhead,
	// scaled by the sine of the altitude.
	var theoreticalLux float64
	if altitudeDegrees > 0 {
		theoreticalLux = 120000.0 * math.Sin(position.Altitude)
		if theoreticalLux < 0 {
			theoreticalLux = 0
		}
	}

	return &DaylightContext{
		TheoreticalOutdoorLux: theoreticalLux,
		SunAltitudeDegrees:    altitudeDegrees,
		IsDaytime:             altitudeDegrees > 0,
		IsGoldenHour:          altitudeDegrees > 0 && altitudeDegrees < 6,
	}
}

// LikelySources infers the probable light sources for an indoor lux
// reading given the daylight context
func LikelySources(lux float64, daylight *DaylightContext) []string {
	if lux <= 10 {
		return []string{"none"}
	}

	sources := []string{}
	if daylight.IsDaytime && lux > 100 {
		sources = append(sources, "natural")
		if lux > 500 {
			sources = append(sources, "mixed")
		}
	} else if !daylight.IsDaytime && lux > 50 {
		sources = append(sources, "artificial")
	}

	if len(sources) == 0 {
		sources = append(sources, "unknown")
	}

	return sources
}
