// Package photocell converts raw ADC readings from a light dependent
// resistor (LDR) wired in a voltage divider into calibrated illuminance
// values in lux and footcandles, with optional smoothing over a rolling
// window of readings.
//
// The resistance/illuminance relation of the GL55xx family is
// approximated by the power law lux = multiplier / R^exponent; the
// built-in device presets carry parameters fitted from the vendor
// datasheet curves. Sampling itself is out of scope: callers hand in a
// raw counter value and get illuminance back.
package photocell

import "math"

// luxPerFootCandle is the conversion factor between the two
// illuminance units (1 fc = 1 lumen/ft^2).
const luxPerFootCandle = 10.764

const (
	// DefaultReferenceResistor is the fixed divider resistor in ohms.
	DefaultReferenceResistor = 3300
	// DefaultADCResolutionBits matches a 12-bit ADC (0-4095).
	DefaultADCResolutionBits = 12
	// DefaultSmoothingWindow is the rolling window used by the
	// smoothed read path.
	DefaultSmoothingWindow = 10
)

// Options configures the fixed, per-wiring properties of a Sensor.
// Zero values select the defaults above.
type Options struct {
	// ReferenceResistor is the fixed resistor of the voltage divider
	// in ohms. It cannot change at runtime; rewiring means building a
	// new Sensor.
	ReferenceResistor uint32
	// ADCResolutionBits is the resolution of the ADC producing raw
	// samples.
	ADCResolutionBits uint
	// SmoothingWindow is the rolling window size for smoothed reads,
	// clamped to MaxSmoothingWindow. Zero disables smoothing only
	// when set explicitly via DisableSmoothing.
	SmoothingWindow uint
	// DisableSmoothing bypasses the smoothing buffer entirely;
	// smoothed reads then return the instantaneous value.
	DisableSmoothing bool
}

// Sensor models a single photocell: its calibration parameters, its
// wiring orientation and its smoothing history. Sensors are not safe
// for concurrent use; a sensor owned by a single sampling loop needs
// no locking, anything else must serialize access externally.
type Sensor struct {
	multiplier  float64
	exponent    float64
	refResistor uint32
	adcBits     uint
	onGround    bool
	window      uint
	smooth      smoother
}

// New creates a sensor calibrated for the given device. Unknown
// devices fall back to the GL5528 parameters.
func New(device Device, opts Options) *Sensor {
	if opts.ReferenceResistor == 0 {
		opts.ReferenceResistor = DefaultReferenceResistor
	}
	if opts.ADCResolutionBits == 0 {
		opts.ADCResolutionBits = DefaultADCResolutionBits
	}
	if opts.SmoothingWindow == 0 && !opts.DisableSmoothing {
		opts.SmoothingWindow = DefaultSmoothingWindow
	}
	if opts.DisableSmoothing {
		opts.SmoothingWindow = 0
	}

	s := &Sensor{
		refResistor: opts.ReferenceResistor,
		adcBits:     opts.ADCResolutionBits,
		window:      opts.SmoothingWindow,
	}
	s.Configure(device)
	return s
}

// Configure selects the calibration preset for a device, resets the
// wiring orientation to grounded and restarts the smoothing history.
func (s *Sensor) Configure(device Device) {
	cal := device.Params()
	s.multiplier = cal.Multiplier
	s.exponent = cal.Exponent
	s.onGround = true
	s.smooth.Reset(s.window)
}

// SetPhotocellOnGround records whether the photocell sits on the
// ground side of the divider (true) or on the supply side (false).
// Takes effect on the next conversion.
func (s *Sensor) SetPhotocellOnGround(onGround bool) {
	s.onGround = onGround
}

// UpdateCalibration overrides the power-law parameters, e.g. with
// values fitted for a photocell outside the built-in preset list.
func (s *Sensor) UpdateCalibration(multiplier, exponent float64) {
	s.multiplier = multiplier
	s.exponent = exponent
}

// Calibration returns the power-law parameters currently in effect.
func (s *Sensor) Calibration() Calibration {
	return Calibration{Multiplier: s.multiplier, Exponent: s.exponent}
}

// RawToLux converts a raw ADC sample into illuminance in lux.
//
// The caller must supply a sample in [1, 2^bits]; a sample equal to
// the full scale is treated as full scale minus one so the divider
// ratio stays finite. A zero sample is a precondition violation and
// divides by zero, matching the reference calibration formula.
func (s *Sensor) RawToLux(raw uint32) float64 {
	fullScale := float64(uint64(1) << s.adcBits)
	sample := float64(raw)
	if sample == fullScale {
		sample--
	}

	ratio := fullScale/sample - 1

	// The divider resistance is truncated to whole ohms before the
	// power law, matching the calibration tables the presets were
	// fitted against.
	var resistance float64
	if s.onGround {
		resistance = math.Trunc(float64(s.refResistor) / ratio)
	} else {
		resistance = math.Trunc(float64(s.refResistor) * ratio)
	}

	return s.multiplier / math.Pow(resistance, s.exponent)
}

// CurrentLux returns the instantaneous illuminance for a raw sample.
func (s *Sensor) CurrentLux(raw uint32) float64 {
	return s.RawToLux(raw)
}

// CurrentFootCandles returns the instantaneous illuminance for a raw
// sample in footcandles.
func (s *Sensor) CurrentFootCandles(raw uint32) float64 {
	return LuxToFootCandles(s.CurrentLux(raw))
}

// SmoothedLux converts a raw sample to lux and folds it into the
// rolling window, returning the smoothed illuminance. Every call
// advances the window: two calls with the same sample represent two
// successive physical readings, not a repeated query.
func (s *Sensor) SmoothedLux(raw uint32) float64 {
	return s.smooth.Push(s.CurrentLux(raw))
}

// SmoothedFootCandles is SmoothedLux converted to footcandles.
func (s *Sensor) SmoothedFootCandles(raw uint32) float64 {
	return LuxToFootCandles(s.SmoothedLux(raw))
}

// LuxToFootCandles converts an illuminance from lux to footcandles.
func LuxToFootCandles(lux float64) float64 {
	return lux / luxPerFootCandle
}

// FootCandlesToLux converts an illuminance from footcandles to lux.
func FootCandlesToLux(footCandles float64) float64 {
	return footCandles * luxPerFootCandle
}
