package photocell

import (
	"math"
	"testing"
)

func newTestSensor(device Device) *Sensor {
	return New(device, Options{DisableSmoothing: true})
}

func TestRawToLuxRegressionFixture(t *testing.T) {
	// GL5528, 12-bit ADC, 3300 ohm reference, grounded photocell.
	// Mid-scale sample gives ratio 1, so the divider resistance is
	// exactly the reference resistor.
	s := newTestSensor(GL5528)

	got := s.RawToLux(2048)
	want := 86.07401852404222
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RawToLux(2048) = %v, want %v", got, want)
	}

	got = s.RawToLux(1024)
	want = 490.0613473845244
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RawToLux(1024) = %v, want %v", got, want)
	}
}

func TestRawToLuxMonotonicallyDecreasing(t *testing.T) {
	devices := []Device{GL5516, GL5528, GL5537_1, GL5537_2, GL5539, GL5549}
	samples := []uint32{100, 500, 1000, 2000, 3000, 4000}

	for _, device := range devices {
		t.Run(device.String(), func(t *testing.T) {
			s := newTestSensor(device)
			prev := math.Inf(1)
			for _, raw := range samples {
				lux := s.RawToLux(raw)
				if lux >= prev {
					t.Errorf("RawToLux(%d) = %v, not below previous %v", raw, lux, prev)
				}
				prev = lux
			}
		})
	}
}

func TestRawToLuxFullScaleCollapses(t *testing.T) {
	s := newTestSensor(GL5528)

	atFullScale := s.RawToLux(4096)
	belowFullScale := s.RawToLux(4095)
	if atFullScale != belowFullScale {
		t.Errorf("RawToLux(4096) = %v, RawToLux(4095) = %v, want equal", atFullScale, belowFullScale)
	}
}

func TestRawToLuxOrientation(t *testing.T) {
	s := newTestSensor(GL5528)

	// At mid-scale the ratio is exactly 1, so both orientations see
	// the same divider resistance.
	grounded := s.RawToLux(2048)
	s.SetPhotocellOnGround(false)
	supply := s.RawToLux(2048)
	if grounded != supply {
		t.Errorf("mid-scale lux differs by orientation: %v vs %v", grounded, supply)
	}

	// Away from mid-scale the orientations diverge: on the supply
	// side the computed resistance falls as the raw reading rises,
	// so lux increases with the raw sample instead of decreasing.
	low := s.RawToLux(1024)
	high := s.RawToLux(3072)
	if high <= low {
		t.Errorf("supply-side orientation: lux(3072)=%v should exceed lux(1024)=%v", high, low)
	}
}

func TestConfigureResetsOrientationAndHistory(t *testing.T) {
	s := New(GL5528, Options{SmoothingWindow: 2})
	s.SetPhotocellOnGround(false)
	s.SmoothedLux(1000)
	s.SmoothedLux(2000)

	s.Configure(GL5516)

	if got, want := s.Calibration(), (Calibration{Multiplier: 29634400, Exponent: 1.6689}); got != want {
		t.Errorf("calibration after Configure = %+v, want %+v", got, want)
	}
	// History restarted: first smoothed read equals the current read.
	if got, want := s.SmoothedLux(2048), s.CurrentLux(2048); got != want {
		t.Errorf("first smoothed read after Configure = %v, want %v", got, want)
	}
}

func TestUpdateCalibration(t *testing.T) {
	s := newTestSensor(GL5528)
	s.UpdateCalibration(1000000, 1.0)

	// ratio 1 at mid-scale, resistance 3300: lux = 1e6 / 3300.
	got := s.RawToLux(2048)
	want := 1000000.0 / 3300
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RawToLux after UpdateCalibration = %v, want %v", got, want)
	}
}

func TestDeviceParams(t *testing.T) {
	tests := []struct {
		device Device
		want   Calibration
	}{
		{GL5516, Calibration{29634400, 1.6689}},
		{GL5528, Calibration{32017200, 1.5832}},
		{GL5537_1, Calibration{32435800, 1.4899}},
		{GL5537_2, Calibration{2801820, 1.1772}},
		{GL5539, Calibration{208510000, 1.4850}},
		{GL5549, Calibration{44682100, 1.2750}},
	}

	for _, tt := range tests {
		t.Run(tt.device.String(), func(t *testing.T) {
			if got := tt.device.Params(); got != tt.want {
				t.Errorf("Params() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name string
		want Device
	}{
		{"GL5516", GL5516},
		{"gl5528", GL5528},
		{"GL5537-1", GL5537_1},
		{"gl5537_2", GL5537_2},
		{"GL5539", GL5539},
		{"GL5549", GL5549},
		{"", DefaultDevice},
		{"BPW34", DefaultDevice},
	}

	for _, tt := range tests {
		if got := ParseDevice(tt.name); got != tt.want {
			t.Errorf("ParseDevice(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFootCandleRoundTrip(t *testing.T) {
	for _, lux := range []float64{0, 0.5, 10.764, 123.4, 98000} {
		got := FootCandlesToLux(LuxToFootCandles(lux))
		if math.Abs(got-lux) > 1e-9*math.Max(1, lux) {
			t.Errorf("round trip of %v lux = %v", lux, got)
		}
	}

	if got, want := LuxToFootCandles(10.764), 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("LuxToFootCandles(10.764) = %v, want %v", got, want)
	}
}

func TestSmoothedFootCandles(t *testing.T) {
	s := New(GL5528, Options{SmoothingWindow: 3})

	lux := s.SmoothedLux(2048)
	s2 := New(GL5528, Options{SmoothingWindow: 3})
	fc := s2.SmoothedFootCandles(2048)

	if want := LuxToFootCandles(lux); math.Abs(fc-want) > 1e-12 {
		t.Errorf("SmoothedFootCandles = %v, want %v", fc, want)
	}
}

func TestSmoothedReadsAdvanceWindow(t *testing.T) {
	s := New(GL5528, Options{SmoothingWindow: 3})

	// Identical raw samples during warm-up give identical averages,
	// but the buffer state still advances on every call.
	first := s.SmoothedLux(2048)
	second := s.SmoothedLux(1024)
	if first == second {
		t.Errorf("successive smoothed reads with different samples both returned %v", first)
	}
}
