package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/hvaltia/ldr-platform/pkg/mqtt"
)

// Player publishes a recorded trace to the broker at its original pacing
type Player struct {
	client paho.Client
	logger *slog.Logger
	speed  float64
}

// NewPlayer connects to the broker and prepares a player.
// Speed scales playback pacing; 2.0 plays a trace twice as fast and
// values at or below zero fall back to real time.
func NewPlayer(broker, clientID string, speed float64, logger *slog.Logger) (*Player, error) {
	if speed <= 0 {
		speed = 1.0
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("Connected to MQTT broker", "broker", broker)

	return &Player{
		client: client,
		logger: logger,
		speed:  speed,
	}, nil
}

// Play publishes every sample in the trace, sleeping between samples to
// reproduce the recorded offsets. Returns early when ctx is cancelled.
func (p *Player) Play(ctx context.Context, trace *Trace) error {
	p.logger.Info("Playing trace",
		"name", trace.Name,
		"samples", len(trace.Samples),
		"speed", p.speed)

	start := time.Now()
	for i, event := range trace.Samples {
		due := start.Add(time.Duration(event.Time / p.speed * float64(time.Second)))
		if wait := time.Until(due); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := p.publishSample(trace.LocationFor(event), event); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}

	p.logger.Info("Trace complete", "name", trace.Name, "elapsed", time.Since(start))
	return nil
}

func (p *Player) publishSample(location string, event Event) error {
	topic := mqtt.RawLDRTopic(location)

	payload, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"raw": event.Raw,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// QoS 1 so replayed samples are not silently dropped
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}

	p.logger.Debug("Published sample", "topic", topic, "raw", event.Raw)
	return nil
}

// Close disconnects from the broker
func (p *Player) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		p.logger.Info("Disconnected from MQTT broker")
	}
}
