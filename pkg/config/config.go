package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for an LDR platform service
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration (archive storage)
	PostgresHost               string
	PostgresPort               int
	PostgresUser               string
	PostgresPassword           string
	PostgresDB                 string
	PostgresSSLMode            string
	PostgresMaxConnections     int
	PostgresMaxIdleConnections int
	PostgresConnMaxLifetime    time.Duration

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Photocell configuration
	Device            string
	ReferenceResistor uint
	ADCResolutionBits uint
	SmoothingWindow   uint
	PhotocellOnGround bool
	ProfilesFile      string

	// Pipeline configuration
	SensorTopics     []string
	RetentionHours   float64
	EnableArchive    bool
	ArchiveBatchSize int

	// Daylight context configuration
	Latitude  float64
	Longitude float64
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:   "localhost",
		MQTTPort:     1883,
		MQTTUser:     "",
		MQTTPassword: "",
		MQTTClientID: "",

		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,

		PostgresHost:               "localhost",
		PostgresPort:               5432,
		PostgresUser:               "ldr",
		PostgresPassword:           "",
		PostgresDB:                 "ldr",
		PostgresSSLMode:            "disable",
		PostgresMaxConnections:     10,
		PostgresMaxIdleConnections: 5,
		PostgresConnMaxLifetime:    30 * time.Minute,

		ServiceName: "ldr-agent",
		HealthPort:  8080,
		LogLevel:    "info",

		Device:            "GL5528",
		ReferenceResistor: 3300,
		ADCResolutionBits: 12,
		SmoothingWindow:   10,
		PhotocellOnGround: true,
		ProfilesFile:      "",

		SensorTopics:     []string{"sensors/raw/ldr/+"},
		RetentionHours:   24.0,
		EnableArchive:    false,
		ArchiveBatchSize: 50,

		// Helsinki coordinates
		Latitude:  60.1695,
		Longitude: 24.9354,
	}
}

// LoadFromEnv loads configuration from environment variables with LDR_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("LDR_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("LDR_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("LDR_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("LDR_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("LDR_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("LDR_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("LDR_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("LDR_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("LDR_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("LDR_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("LDR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("LDR_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("LDR_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("LDR_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("LDR_POSTGRES_SSLMODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("LDR_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("LDR_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("LDR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Photocell configuration
	if v := os.Getenv("LDR_DEVICE"); v != "" {
		c.Device = v
	}
	if v := os.Getenv("LDR_REFERENCE_RESISTOR"); v != "" {
		if ohms, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.ReferenceResistor = uint(ohms)
		}
	}
	if v := os.Getenv("LDR_ADC_RESOLUTION_BITS"); v != "" {
		if bits, err := strconv.ParseUint(v, 10, 8); err == nil {
			c.ADCResolutionBits = uint(bits)
		}
	}
	if v := os.Getenv("LDR_SMOOTHING_WINDOW"); v != "" {
		if window, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.SmoothingWindow = uint(window)
		}
	}
	if v := os.Getenv("LDR_PHOTOCELL_ON_GROUND"); v != "" {
		if onGround, err := strconv.ParseBool(v); err == nil {
			c.PhotocellOnGround = onGround
		}
	}
	if v := os.Getenv("LDR_PROFILES_FILE"); v != "" {
		c.ProfilesFile = v
	}

	// Pipeline configuration
	if v := os.Getenv("LDR_RETENTION_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil {
			c.RetentionHours = hours
		}
	}
	if v := os.Getenv("LDR_ENABLE_ARCHIVE"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.EnableArchive = enable
		}
	}
	if v := os.Getenv("LDR_ARCHIVE_BATCH_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.ArchiveBatchSize = size
		}
	}

	// Daylight context configuration
	if v := os.Getenv("LDR_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("LDR_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-sslmode", c.PostgresSSLMode, "Postgres SSL mode")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Photocell flags
	pflag.StringVar(&c.Device, "device", c.Device, "Photocell device preset (GL5516, GL5528, GL5537-1, GL5537-2, GL5539, GL5549)")
	pflag.UintVar(&c.ReferenceResistor, "reference-resistor", c.ReferenceResistor, "Voltage divider reference resistor in ohms")
	pflag.UintVar(&c.ADCResolutionBits, "adc-resolution-bits", c.ADCResolutionBits, "ADC resolution in bits")
	pflag.UintVar(&c.SmoothingWindow, "smoothing-window", c.SmoothingWindow, "Rolling window size for smoothed lux (0 disables smoothing)")
	pflag.BoolVar(&c.PhotocellOnGround, "photocell-on-ground", c.PhotocellOnGround, "Photocell wired to the ground side of the divider")
	pflag.StringVar(&c.ProfilesFile, "profiles-file", c.ProfilesFile, "YAML file with custom calibration profiles")

	// Pipeline flags
	pflag.Float64Var(&c.RetentionHours, "retention-hours", c.RetentionHours, "Hours of readings kept in Redis")
	pflag.BoolVar(&c.EnableArchive, "enable-archive", c.EnableArchive, "Enable Postgres archiving of readings")
	pflag.IntVar(&c.ArchiveBatchSize, "archive-batch-size", c.ArchiveBatchSize, "Readings per archive insert batch")

	// Daylight context flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for daylight calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for daylight calculation")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.ADCResolutionBits == 0 || c.ADCResolutionBits > 32 {
		return fmt.Errorf("ADC resolution must be between 1 and 32 bits")
	}
	if c.ReferenceResistor == 0 {
		return fmt.Errorf("Reference resistor must be a positive resistance in ohms")
	}
	if c.RetentionHours <= 0 {
		return fmt.Errorf("Retention must be a positive number of hours")
	}
	if c.EnableArchive {
		if c.PostgresHost == "" {
			return fmt.Errorf("Postgres host is required when archiving is enabled")
		}
		if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
			return fmt.Errorf("Postgres port must be between 1 and 65535")
		}
		if c.ArchiveBatchSize <= 0 {
			return fmt.Errorf("Archive batch size must be positive")
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDB, c.PostgresSSLMode)
}

// Retention returns the Redis retention window as a duration
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours * float64(time.Hour))
}
