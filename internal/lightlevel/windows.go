package lightlevel

import (
	"math"
	"time"
)

// WindowStats contains statistical analysis of readings in a time window
type WindowStats struct {
	AverageLux float64 `json:"average_lux"`
	MinLux     float64 `json:"min_lux"`
	MaxLux     float64 `json:"max_lux"`
	Count      int     `json:"count"`
	Trend      string  `json:"trend"`
	Stability  string  `json:"stability"`
	Label      string  `json:"label"`
}

func emptyWindowStats() *WindowStats {
	return &WindowStats{
		Trend:     "unknown",
		Stability: "unknown",
		Label:     "unknown",
	}
}

// AnalyzeWindow performs statistical analysis on readings within the
// given window ending at now
func AnalyzeWindow(readings []LightReading, window time.Duration, now time.Time) *WindowStats {
	if len(readings) == 0 {
		return emptyWindowStats()
	}

	cutoff := now.Add(-window)
	var filtered []LightReading
	for _, reading := range readings {
		if reading.Time().After(cutoff) {
			filtered = append(filtered, reading)
		}
	}

	if len(filtered) == 0 {
		return emptyWindowStats()
	}

	var sum float64
	min := filtered[0].Lux
	max := filtered[0].Lux

	for _, reading := range filtered {
		sum += reading.Lux
		if reading.Lux < min {
			min = reading.Lux
		}
		if reading.Lux > max {
			max = reading.Lux
		}
	}

	avg := sum / float64(len(filtered))

	return &WindowStats{
		AverageLux: avg,
		MinLux:     min,
		MaxLux:     max,
		Count:      len(filtered),
		Trend:      CalculateTrend(filtered),
		Stability:  CalculateStability(filtered, avg),
		Label:      LuxToLabel(avg),
	}
}

// CalculateTrend detects if illuminance is brightening, dimming, or stable
func CalculateTrend(readings []LightReading) string {
	if len(readings) < 3 {
		return "unknown"
	}

	// Split readings into two halves and compare averages
	mid := len(readings) / 2
	var firstSum, secondSum float64
	for _, r := range readings[:mid] {
		firstSum += r.Lux
	}
	for _, r := range readings[mid:] {
		secondSum += r.Lux
	}

	firstAvg := firstSum / float64(mid)
	secondAvg := secondSum / float64(len(readings)-mid)

	if firstAvg == 0 {
		if secondAvg > 0 {
			return "brightening"
		}
		return "stable"
	}

	percentChange := ((secondAvg - firstAvg) / firstAvg) * 100

	// Threshold: 20% change
	if percentChange > 20 {
		return "brightening"
	} else if percentChange < -20 {
		return "dimming"
	}

	return "stable"
}

// CalculateStability measures volatility using coefficient of variation
func CalculateStability(readings []LightReading, avg float64) string {
	if len(readings) < 2 || avg == 0 {
		return "unknown"
	}

	var sumSquaredDiff float64
	for _, reading := range readings {
		diff := reading.Lux - avg
		sumSquaredDiff += diff * diff
	}

	variance := sumSquaredDiff / float64(len(readings))
	cv := math.Sqrt(variance) / avg

	if cv > 0.5 {
		return "volatile"
	} else if cv > 0.2 {
		return "variable"
	}

	return "stable"
}

// LuxToLabel converts a lux value to a semantic label
func LuxToLabel(lux float64) string {
	if lux <= 10 {
		return "dark"
	} else if lux <= 50 {
		return "dim"
	} else if lux <= 200 {
		return "moderate"
	} else if lux <= 500 {
		return "bright"
	}
	return "very_bright"
}
