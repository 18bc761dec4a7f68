package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CalibrationProfile is a custom power-law calibration for a photocell
// outside the built-in GL55xx preset list.
type CalibrationProfile struct {
	Multiplier float64 `yaml:"multiplier"`
	Exponent   float64 `yaml:"exponent"`
}

// ProfilesFile is the on-disk format for custom calibration profiles:
//
//	profiles:
//	  workshop-ldr:
//	    multiplier: 28500000
//	    exponent: 1.61
type ProfilesFile struct {
	Profiles map[string]CalibrationProfile `yaml:"profiles"`
}

// LoadProfiles loads custom calibration profiles from a YAML file
func LoadProfiles(path string) (map[string]CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses profiles from YAML data (useful for testing)
func ParseProfiles(data []byte) (map[string]CalibrationProfile, error) {
	var file ProfilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles YAML: %w", err)
	}

	for name, profile := range file.Profiles {
		if profile.Multiplier <= 0 {
			return nil, fmt.Errorf("profile %q: multiplier must be positive", name)
		}
		if profile.Exponent <= 0 {
			return nil, fmt.Errorf("profile %q: exponent must be positive", name)
		}
	}

	return file.Profiles, nil
}
