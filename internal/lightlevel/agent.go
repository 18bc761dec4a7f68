package lightlevel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hvaltia/ldr-platform/pkg/config"
	"github.com/hvaltia/ldr-platform/pkg/mqtt"
	"github.com/hvaltia/ldr-platform/pkg/photocell"
	"github.com/hvaltia/ldr-platform/pkg/redis"
)

// statsWindow is the window used for the published window statistics
const statsWindow = 10 * time.Minute

// Agent receives raw ADC samples over MQTT, converts them to
// calibrated illuminance with a per-location photocell model, stores
// the readings and publishes processed light messages.
type Agent struct {
	mqtt      mqtt.Client
	redis     redis.Client
	processor *Processor
	storage   *Storage
	archiver  *Archiver
	cfg       *config.Config
	logger    *slog.Logger

	// One photocell model per location. Sensor mutation (smoothing
	// ring) is not atomic, so the map and the sensors share a lock.
	mu      sync.Mutex
	sensors map[string]*photocell.Sensor

	calibration *config.CalibrationProfile
}

// NewAgent creates a new light level agent with the given dependencies.
// The archiver may be nil when Postgres archiving is disabled.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, archiver *Archiver, cfg *config.Config, logger *slog.Logger) (*Agent, error) {
	agent := &Agent{
		mqtt:      mqttClient,
		redis:     redisClient,
		processor: NewProcessor(logger),
		storage:   NewStorage(redisClient, cfg, logger),
		archiver:  archiver,
		cfg:       cfg,
		logger:    logger,
		sensors:   make(map[string]*photocell.Sensor),
	}

	// A custom calibration profile overrides the device preset when
	// the configured device names one.
	if cfg.ProfilesFile != "" {
		profiles, err := config.LoadProfiles(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load calibration profiles: %w", err)
		}
		if profile, ok := profiles[cfg.Device]; ok {
			agent.calibration = &profile
			logger.Info("Using custom calibration profile",
				"profile", cfg.Device,
				"multiplier", profile.Multiplier,
				"exponent", profile.Exponent)
		}
	}

	return agent, nil
}

// Start starts the agent and begins processing raw samples
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting light level agent",
		"service_name", a.cfg.ServiceName,
		"mqtt_broker", a.cfg.MQTTAddress(),
		"device", a.cfg.Device,
		"smoothing_window", a.cfg.SmoothingWindow)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	if a.archiver != nil {
		if err := a.archiver.Start(ctx); err != nil {
			return fmt.Errorf("failed to start archiver: %w", err)
		}
		go a.archiver.Run(ctx)
	}

	for _, topic := range a.cfg.SensorTopics {
		if err := a.mqtt.Subscribe(topic, 0, a.handleMessage); err != nil {
			a.logger.Error("Failed to subscribe to topic", "topic", topic, "error", err)
			continue
		}
	}

	a.logger.Info("Light level agent started and ready to receive samples",
		"subscribed_topics", strings.Join(a.cfg.SensorTopics, ", "))

	<-ctx.Done()
	a.logger.Info("Light level agent stopping")

	return nil
}

// Stop gracefully stops the agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping light level agent")

	a.mqtt.Disconnect()

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Light level agent stopped")
	return nil
}

// sensorFor returns the photocell model for a location, creating it on
// first use. Caller must hold a.mu.
func (a *Agent) sensorFor(location string) *photocell.Sensor {
	if sensor, ok := a.sensors[location]; ok {
		return sensor
	}

	sensor := photocell.New(photocell.ParseDevice(a.cfg.Device), photocell.Options{
		ReferenceResistor: uint32(a.cfg.ReferenceResistor),
		ADCResolutionBits: a.cfg.ADCResolutionBits,
		SmoothingWindow:   a.cfg.SmoothingWindow,
		DisableSmoothing:  a.cfg.SmoothingWindow == 0,
	})
	sensor.SetPhotocellOnGround(a.cfg.PhotocellOnGround)
	if a.calibration != nil {
		sensor.UpdateCalibration(a.calibration.Multiplier, a.calibration.Exponent)
	}

	a.sensors[location] = sensor
	a.logger.Info("Created photocell model", "location", location, "device", a.cfg.Device)
	return sensor
}

// handleMessage processes one raw sample message end to end
func (a *Agent) handleMessage(msg mqtt.Message) {
	topic := msg.Topic()
	payload := msg.Payload()

	a.logger.Debug("Received raw sample", "topic", topic, "size", len(payload))

	sample, err := a.processor.ParseSample(topic, payload)
	if err != nil {
		a.logger.Error("Failed to parse sample", "topic", topic, "error", err)
		return
	}

	a.mu.Lock()
	sensor := a.sensorFor(sample.Location)
	lux := sensor.CurrentLux(sample.Raw)
	smoothed := sensor.SmoothedLux(sample.Raw)
	a.mu.Unlock()

	reading := a.processor.BuildReading(sample, lux, smoothed)

	ctx := context.Background()

	if err := a.storage.Store(ctx, reading); err != nil {
		a.logger.Error("Failed to store reading",
			"location", reading.Location, "error", err)
		return
	}

	if a.archiver != nil {
		a.archiver.Add(ctx, reading)
	}

	a.publishReading(ctx, reading)
}

// publishReading publishes the processed light message with window
// statistics and daylight context
func (a *Agent) publishReading(ctx context.Context, reading *LightReading) {
	now := reading.Time()

	var window *WindowStats
	readings, err := a.storage.GetWindow(ctx, reading.Location, statsWindow, now)
	if err != nil {
		a.logger.Warn("Failed to query window readings",
			"location", reading.Location, "error", err)
	} else {
		window = AnalyzeWindow(readings, statsWindow, now)
	}

	daylight := ComputeDaylight(a.cfg.Latitude, a.cfg.Longitude, now)

	payload, err := a.processor.BuildLightPayload(a.cfg.ServiceName, reading, window, daylight)
	if err != nil {
		a.logger.Error("Failed to build light payload",
			"location", reading.Location, "error", err)
		return
	}

	topic := mqtt.LightTopic(reading.Location)
	if err := a.mqtt.Publish(topic, 0, false, payload); err != nil {
		a.logger.Error("Failed to publish light message",
			"topic", topic, "error", err)
		return
	}

	a.logger.Debug("Published light message",
		"topic", topic,
		"lux", reading.Lux,
		"smoothed_lux", reading.SmoothedLux,
		"label", reading.Label)
}
