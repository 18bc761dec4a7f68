package photocell

import "strings"

// Device identifies a supported photoresistor model from the GL55xx family
type Device int

const (
	GL5516 Device = iota
	GL5528
	GL5537_1
	GL5537_2
	GL5539
	GL5549
)

// DefaultDevice is used when a device name is not recognized
const DefaultDevice = GL5528

// Calibration holds the power-law parameters that map a photocell
// resistance to illuminance: lux = Multiplier / R^Exponent
type Calibration struct {
	Multiplier float64
	Exponent   float64
}

// calibrations maps each supported device to its datasheet-derived
// power-law parameters (valid around 25 degrees C)
var calibrations = map[Device]Calibration{
	GL5516:   {Multiplier: 29634400, Exponent: 1.6689},
	GL5528:   {Multiplier: 32017200, Exponent: 1.5832},
	GL5537_1: {Multiplier: 32435800, Exponent: 1.4899},
	GL5537_2: {Multiplier: 2801820, Exponent: 1.1772},
	GL5539:   {Multiplier: 208510000, Exponent: 1.4850},
	GL5549:   {Multiplier: 44682100, Exponent: 1.2750},
}

var deviceNames = map[Device]string{
	GL5516:   "GL5516",
	GL5528:   "GL5528",
	GL5537_1: "GL5537-1",
	GL5537_2: "GL5537-2",
	GL5539:   "GL5539",
	GL5549:   "GL5549",
}

// String returns the device model name
func (d Device) String() string {
	if name, ok := deviceNames[d]; ok {
		return name
	}
	return deviceNames[DefaultDevice]
}

// Params returns the calibration parameters for the device.
// Unknown devices resolve to the default device parameters.
func (d Device) Params() Calibration {
	if cal, ok := calibrations[d]; ok {
		return cal
	}
	return calibrations[DefaultDevice]
}

// ParseDevice resolves a device name (case-insensitive, "-" and "_"
// interchangeable) to a Device. Unrecognized names fall back to the
// default device rather than failing, so a misconfigured agent still
// produces plausible readings.
func ParseDevice(name string) Device {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	switch normalized {
	case "GL5516":
		return GL5516
	case "GL5528":
		return GL5528
	case "GL5537-1", "GL5537A":
		return GL5537_1
	case "GL5537-2", "GL5537B":
		return GL5537_2
	case "GL5539":
		return GL5539
	case "GL5549":
		return GL5549
	default:
		return DefaultDevice
	}
}
