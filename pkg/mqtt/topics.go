package mqtt

import (
	"fmt"
	"strings"
)

// Topic layout for the LDR pipeline. External samplers publish raw ADC
// counts under sensors/raw/ldr/{location}; the agent publishes
// calibrated illuminance under sensors/light/{location}.
const (
	TopicRawLDR   = "sensors/raw/ldr/+"
	TopicLightAll = "sensors/light/+"
)

// RawLDRTopic constructs the raw sample topic for a location
func RawLDRTopic(location string) string {
	return fmt.Sprintf("sensors/raw/ldr/%s", location)
}

// LightTopic constructs the processed illuminance topic for a location
func LightTopic(location string) string {
	return fmt.Sprintf("sensors/light/%s", location)
}

// LocationFromRawTopic extracts the location segment from a raw sample
// topic. Returns an error for topics outside the raw LDR namespace.
func LocationFromRawTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "sensors" || parts[1] != "raw" || parts[2] != "ldr" || parts[3] == "" {
		return "", fmt.Errorf("topic %q is not a raw LDR topic", topic)
	}
	return parts[3], nil
}
