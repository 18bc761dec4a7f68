// Package replay publishes recorded raw ADC traces to the broker so
// the pipeline can be exercised without sampler hardware.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Trace is a recorded sequence of raw ADC samples for one location
type Trace struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Location    string  `yaml:"location"`
	Samples     []Event `yaml:"samples"`
}

// Event is a single recorded sample
type Event struct {
	// Time is the offset from trace start in seconds
	Time float64 `yaml:"time"`
	// Raw is the recorded ADC counter value
	Raw uint32 `yaml:"raw"`
	// Location overrides the trace location for this sample
	Location    string `yaml:"location,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LoadTrace loads a trace from a YAML file
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return ParseTrace(data)
}

// ParseTrace parses a trace from YAML data (useful for testing)
func ParseTrace(data []byte) (*Trace, error) {
	var trace Trace
	if err := yaml.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("failed to parse trace YAML: %w", err)
	}

	if err := validateTrace(&trace); err != nil {
		return nil, fmt.Errorf("trace validation failed: %w", err)
	}

	return &trace, nil
}

func validateTrace(trace *Trace) error {
	if len(trace.Samples) == 0 {
		return fmt.Errorf("trace has no samples")
	}
	prev := -1.0
	for i, event := range trace.Samples {
		if event.Location == "" && trace.Location == "" {
			return fmt.Errorf("sample %d has no location and the trace sets no default", i)
		}
		if event.Raw == 0 {
			return fmt.Errorf("sample %d: raw value 0 is outside the sampler range", i)
		}
		if event.Time < prev {
			return fmt.Errorf("sample %d: time %v is before the previous sample", i, event.Time)
		}
		prev = event.Time
	}
	return nil
}

// LocationFor returns the effective location for an event
func (t *Trace) LocationFor(event Event) string {
	if event.Location != "" {
		return event.Location
	}
	return t.Location
}
