package lightlevel

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hvaltia/ldr-platform/pkg/mqtt"
	"github.com/hvaltia/ldr-platform/pkg/photocell"
)

// RawSample is a single ADC reading received from an external sampler
type RawSample struct {
	Location    string
	Raw         uint32
	Sequence    int
	Timestamp   time.Time
	CollectedAt int64 // Unix milliseconds
}

// LightReading is a calibrated illuminance reading as stored in Redis
// and archived to Postgres
type LightReading struct {
	ID                  string  `json:"id"`
	Location            string  `json:"location"`
	Raw                 uint32  `json:"raw"`
	Lux                 float64 `json:"lux"`
	SmoothedLux         float64 `json:"smoothed_lux"`
	FootCandles         float64 `json:"footcandles"`
	SmoothedFootCandles float64 `json:"smoothed_footcandles"`
	Label               string  `json:"label"`
	Timestamp           string  `json:"timestamp"`
	CollectedAt         int64   `json:"collected_at"`
}

// Time parses the reading timestamp. Falls back to the collection
// time when the stored timestamp is malformed.
func (r *LightReading) Time() time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
		return ts
	}
	return time.UnixMilli(r.CollectedAt)
}

// LightPayload is the processed message published to the light topic
type LightPayload struct {
	Reading       *LightReading    `json:"reading"`
	Window        *WindowStats     `json:"window,omitempty"`
	Daylight      *DaylightContext `json:"daylight,omitempty"`
	LikelySources []string         `json:"likely_sources,omitempty"`
	Service       string           `json:"service"`
}

// Processor parses raw sampler messages and builds calibrated readings
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new message processor
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

// rawEnvelope is the wire format of raw sampler messages:
// {"data": {"raw": 2048, "sequence": 17}}. A flat message without the
// data wrapper is accepted too.
type rawEnvelope struct {
	Data *rawBody `json:"data"`
	rawBody
}

type rawBody struct {
	Raw      *float64 `json:"raw"`
	Sequence int      `json:"sequence"`
}

// ParseSample parses a raw MQTT message into a RawSample.
// The raw value must be a non-negative integer; zero is rejected here
// because the divider formula has no defined value for it.
func (p *Processor) ParseSample(topic string, payload []byte) (*RawSample, error) {
	location, err := mqtt.LocationFromRawTopic(topic)
	if err != nil {
		p.logger.Warn("Invalid topic format", "topic", topic)
		return nil, err
	}

	var envelope rawEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		p.logger.Error("Failed to parse JSON payload", "topic", topic, "error", err)
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	body := envelope.rawBody
	if envelope.Data != nil {
		body = *envelope.Data
	}

	if body.Raw == nil {
		return nil, fmt.Errorf("message on %s has no raw value", topic)
	}
	value := *body.Raw
	if value != float64(uint32(value)) || value < 0 {
		return nil, fmt.Errorf("raw value %v is not an unsigned integer", value)
	}
	if value == 0 {
		return nil, fmt.Errorf("raw value 0 is outside the sampler range")
	}

	now := time.Now().UTC()
	sample := &RawSample{
		Location:    location,
		Raw:         uint32(value),
		Sequence:    body.Sequence,
		Timestamp:   now,
		CollectedAt: now.UnixMilli(),
	}

	p.logger.Debug("Parsed raw sample",
		"location", location,
		"raw", sample.Raw,
		"sequence", sample.Sequence)

	return sample, nil
}

// BuildReading converts a raw sample and its lux conversions into a
// stored reading
func (p *Processor) BuildReading(sample *RawSample, lux, smoothedLux float64) *LightReading {
	return &LightReading{
		ID:                  uuid.NewString(),
		Location:            sample.Location,
		Raw:                 sample.Raw,
		Lux:                 lux,
		SmoothedLux:         smoothedLux,
		FootCandles:         photocell.LuxToFootCandles(lux),
		SmoothedFootCandles: photocell.LuxToFootCandles(smoothedLux),
		Label:               LuxToLabel(smoothedLux),
		Timestamp:           sample.Timestamp.Format(time.RFC3339Nano),
		CollectedAt:         sample.CollectedAt,
	}
}

// BuildLightPayload creates the processed message published after a
// reading has been stored
func (p *Processor) BuildLightPayload(serviceName string, reading *LightReading, window *WindowStats, daylight *DaylightContext) ([]byte, error) {
	payload := LightPayload{
		Reading:  reading,
		Window:   window,
		Daylight: daylight,
		Service:  serviceName,
	}
	if daylight != nil {
		payload.LikelySources = LikelySources(reading.SmoothedLux, daylight)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal light payload: %w", err)
	}

	return data, nil
}
