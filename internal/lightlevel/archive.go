package lightlevel

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hvaltia/ldr-platform/pkg/config"
	"github.com/hvaltia/ldr-platform/pkg/postgres"
)

const archiveFlushInterval = 30 * time.Second

const createReadingsTable = `
CREATE TABLE IF NOT EXISTS light_readings (
	id UUID PRIMARY KEY,
	location TEXT NOT NULL,
	raw_sample BIGINT NOT NULL,
	lux DOUBLE PRECISION NOT NULL,
	smoothed_lux DOUBLE PRECISION NOT NULL,
	footcandles DOUBLE PRECISION NOT NULL,
	label TEXT NOT NULL,
	collected_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS light_readings_location_time_idx
	ON light_readings (location, collected_at)`

const insertReading = `
INSERT INTO light_readings (
	id, location, raw_sample, lux, smoothed_lux, footcandles, label, collected_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// Archiver batches calibrated readings and writes them to Postgres for
// long-term history beyond the Redis retention window.
type Archiver struct {
	pg        postgres.Client
	batchSize int
	logger    *slog.Logger

	mu      sync.Mutex
	pending []LightReading
}

// NewArchiver creates an archiver writing batches of the configured size
func NewArchiver(pgClient postgres.Client, cfg *config.Config, logger *slog.Logger) *Archiver {
	return &Archiver{
		pg:        pgClient,
		batchSize: cfg.ArchiveBatchSize,
		logger:    logger,
	}
}

// Start connects to Postgres and ensures the readings table exists
func (a *Archiver) Start(ctx context.Context) error {
	if err := a.pg.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := a.pg.Exec(ctx, createReadingsTable); err != nil {
		return fmt.Errorf("failed to ensure readings table: %w", err)
	}
	return nil
}

// Add queues a reading for archiving, flushing when a full batch has
// accumulated
func (a *Archiver) Add(ctx context.Context, reading *LightReading) {
	a.mu.Lock()
	a.pending = append(a.pending, *reading)
	full := len(a.pending) >= a.batchSize
	a.mu.Unlock()

	if full {
		if err := a.Flush(ctx); err != nil {
			a.logger.Error("Failed to flush archive batch", "error", err)
		}
	}
}

// Flush writes all pending readings in a single transaction
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.pending
	a.pending = nil
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := a.pg.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertReading)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, reading := range batch {
			_, err := stmt.ExecContext(ctx,
				reading.ID,
				reading.Location,
				int64(reading.Raw),
				reading.Lux,
				reading.SmoothedLux,
				reading.FootCandles,
				reading.Label,
				time.UnixMilli(reading.CollectedAt).UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert reading %s: %w", reading.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		// Requeue so a transient database outage does not lose data
		a.mu.Lock()
		a.pending = append(batch, a.pending...)
		a.mu.Unlock()
		return err
	}

	a.logger.Debug("Archived readings", "count", len(batch))
	return nil
}

// Run flushes pending readings periodically until the context ends,
// then performs a final flush and disconnects
func (a *Archiver) Run(ctx context.Context) {
	ticker := time.NewTicker(archiveFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.Flush(ctx); err != nil {
				a.logger.Error("Failed to flush archive batch", "error", err)
			}
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := a.Flush(flushCtx); err != nil {
				a.logger.Error("Failed final archive flush", "error", err)
			}
			cancel()
			if err := a.pg.Disconnect(); err != nil {
				a.logger.Error("Error disconnecting from Postgres", "error", err)
			}
			return
		}
	}
}

// PendingCount reports the number of readings waiting to be archived
func (a *Archiver) PendingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}
