package lightlevel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hvaltia/ldr-platform/pkg/config"
	"github.com/hvaltia/ldr-platform/pkg/redis"
)

// Storage handles Redis persistence of calibrated light readings.
// Readings live in a per-location sorted set scored by collection
// time, with a metadata hash tracking the latest reading.
type Storage struct {
	redis     redis.Client
	retention time.Duration
	logger    *slog.Logger
}

// NewStorage creates a new storage handler
func NewStorage(redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Storage {
	return &Storage{
		redis:     redisClient,
		retention: cfg.Retention(),
		logger:    logger,
	}
}

// Store persists a reading and prunes entries older than the
// retention window
func (s *Storage) Store(ctx context.Context, reading *LightReading) error {
	key := redis.LightReadingsKey(reading.Location)
	metaKey := redis.LightMetaKey(reading.Location)

	jsonData, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	score := float64(reading.CollectedAt)
	if err := s.redis.ZAdd(ctx, key, score, jsonData); err != nil {
		return fmt.Errorf("failed to add reading to sorted set: %w", err)
	}

	if err := s.redis.HSet(ctx, metaKey, "lastReadingTime", strconv.FormatInt(reading.CollectedAt, 10)); err != nil {
		s.logger.Warn("Failed to update reading metadata", "location", reading.Location, "error", err)
		// Metadata is advisory, the reading itself is already stored
	}
	if err := s.redis.HSet(ctx, metaKey, "lastLabel", reading.Label); err != nil {
		s.logger.Warn("Failed to update reading metadata", "location", reading.Location, "error", err)
	}

	// Prune entries beyond the retention window
	oldest := reading.CollectedAt - s.retention.Milliseconds()
	if err := s.redis.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(oldest, 10)); err != nil {
		s.logger.Warn("Failed to prune old readings", "location", reading.Location, "error", err)
	}

	for _, k := range []string{key, metaKey} {
		if err := s.redis.Expire(ctx, k, s.retention); err != nil {
			s.logger.Warn("Failed to set TTL", "key", k, "error", err)
		}
	}

	count, err := s.redis.ZCard(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to get reading buffer size", "location", reading.Location, "error", err)
	} else {
		s.logger.Debug("Stored light reading",
			"location", reading.Location,
			"lux", reading.Lux,
			"label", reading.Label,
			"buffer_size", count)
	}

	return nil
}

// GetWindow retrieves the readings for a location within the window
// ending at now, oldest first
func (s *Storage) GetWindow(ctx context.Context, location string, window time.Duration, now time.Time) ([]LightReading, error) {
	key := redis.LightReadingsKey(location)
	minScore := float64(now.Add(-window).UnixMilli())
	maxScore := float64(now.UnixMilli())

	members, err := s.redis.ZRangeByScoreWithScores(ctx, key, minScore, maxScore)
	if err != nil {
		return nil, fmt.Errorf("redis query failed: %w", err)
	}

	readings := make([]LightReading, 0, len(members))
	for _, item := range members {
		var reading LightReading
		if err := json.Unmarshal([]byte(item.Member), &reading); err != nil {
			s.logger.Warn("Failed to parse stored reading", "error", err, "key", key)
			continue
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

// Meta returns the metadata hash for a location (last reading time and
// last label)
func (s *Storage) Meta(ctx context.Context, location string) (map[string]string, error) {
	meta, err := s.redis.HGetAll(ctx, redis.LightMetaKey(location))
	if err != nil {
		return nil, fmt.Errorf("failed to get reading metadata: %w", err)
	}
	return meta, nil
}

// Locations returns every location that currently has stored readings
func (s *Storage) Locations(ctx context.Context) ([]string, error) {
	keys, err := s.redis.Keys(ctx, redis.LightReadingsPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list reading keys: %w", err)
	}

	prefix := redis.LightReadingsKey("")
	locations := make([]string, 0, len(keys))
	for _, key := range keys {
		if len(key) > len(prefix) {
			locations = append(locations, key[len(prefix):])
		}
	}

	return locations, nil
}
