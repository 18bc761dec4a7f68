package lightlevel

import (
	"fmt"
	"testing"
	"time"
)

func readingsAt(now time.Time, spacing time.Duration, luxValues ...float64) []LightReading {
	readings := make([]LightReading, 0, len(luxValues))
	start := now.Add(-spacing * time.Duration(len(luxValues)-1))
	for i, lux := range luxValues {
		ts := start.Add(spacing * time.Duration(i))
		readings = append(readings, LightReading{
			ID:          fmt.Sprintf("r-%d", i),
			Location:    "study",
			Lux:         lux,
			Timestamp:   ts.Format(time.RFC3339Nano),
			CollectedAt: ts.UnixMilli(),
		})
	}
	return readings
}

func TestAnalyzeWindowBasicStats(t *testing.T) {
	now := time.Now().UTC()
	readings := readingsAt(now, time.Minute, 100, 200, 300)

	stats := AnalyzeWindow(readings, 10*time.Minute, now)

	if stats.Count != 3 {
		t.Fatalf("count = %d, want 3", stats.Count)
	}
	if stats.AverageLux != 200 {
		t.Errorf("average = %v, want 200", stats.AverageLux)
	}
	if stats.MinLux != 100 || stats.MaxLux != 300 {
		t.Errorf("min/max = %v/%v, want 100/300", stats.MinLux, stats.MaxLux)
	}
	if stats.Label != "moderate" {
		t.Errorf("label = %q, want moderate", stats.Label)
	}
}

func TestAnalyzeWindowFiltersOldReadings(t *testing.T) {
	now := time.Now().UTC()
	readings := readingsAt(now, 8*time.Minute, 1000, 100, 100)

	// Spacing puts the first reading 16 minutes back, outside a
	// 10 minute window.
	stats := AnalyzeWindow(readings, 10*time.Minute, now)

	if stats.Count != 2 {
		t.Fatalf("count = %d, want 2", stats.Count)
	}
	if stats.MaxLux != 100 {
		t.Errorf("max = %v, want 100", stats.MaxLux)
	}
}

func TestAnalyzeWindowEmpty(t *testing.T) {
	now := time.Now().UTC()

	for _, readings := range [][]LightReading{nil, readingsAt(now.Add(-time.Hour), time.Minute, 10, 20)} {
		stats := AnalyzeWindow(readings, 10*time.Minute, now)
		if stats.Count != 0 {
			t.Errorf("count = %d, want 0", stats.Count)
		}
		if stats.Trend != "unknown" || stats.Stability != "unknown" || stats.Label != "unknown" {
			t.Errorf("empty window stats = %+v", stats)
		}
	}
}

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name string
		lux  []float64
		want string
	}{
		{"too few readings", []float64{100, 200}, "unknown"},
		{"brightening", []float64{100, 100, 200, 200}, "brightening"},
		{"dimming", []float64{200, 200, 100, 100}, "dimming"},
		{"stable", []float64{100, 100, 105, 110}, "stable"},
		{"from darkness", []float64{0, 0, 50, 50}, "brightening"},
		{"all dark", []float64{0, 0, 0, 0}, "stable"},
	}

	now := time.Now().UTC()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := readingsAt(now, time.Minute, tt.lux...)
			if got := CalculateTrend(readings); got != tt.want {
				t.Errorf("trend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculateStability(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		lux  []float64
		want string
	}{
		{"single reading", []float64{100}, "unknown"},
		{"steady", []float64{100, 101, 99, 100}, "stable"},
		{"variable", []float64{100, 150, 70, 120}, "variable"},
		{"volatile", []float64{10, 400, 20, 500}, "volatile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := readingsAt(now, time.Minute, tt.lux...)
			var sum float64
			for _, r := range readings {
				sum += r.Lux
			}
			avg := sum / float64(len(readings))
			if got := CalculateStability(readings, avg); got != tt.want {
				t.Errorf("stability = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLuxToLabel(t *testing.T) {
	tests := []struct {
		lux  float64
		want string
	}{
		{0, "dark"},
		{10, "dark"},
		{10.5, "dim"},
		{50, "dim"},
		{51, "moderate"},
		{200, "moderate"},
		{450, "bright"},
		{501, "very_bright"},
	}

	for _, tt := range tests {
		if got := LuxToLabel(tt.lux); got != tt.want {
			t.Errorf("LuxToLabel(%v) = %q, want %q", tt.lux, got, tt.want)
		}
	}
}
