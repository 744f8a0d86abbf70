package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stock-scout/models"
	"stock-scout/observability"
)

const snapshotDataType = "snapshot"

// GetCachedSnapshot returns a previously stored snapshot for a symbol, or
// nil on a miss. Expired entries count as misses.
func (r *Repository) GetCachedSnapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "market_data_cache")

	var data []byte

	// Let the database handle expiry check to avoid timezone issues
	err := r.db.QueryRow(ctx, `
		SELECT data FROM market_data_cache
		WHERE symbol = $1 AND data_type = $2 AND expires_at > NOW()
	`, symbol, snapshotDataType).Scan(&data)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "market_data_cache")
		return nil, fmt.Errorf("failed to query snapshot cache: %w", err)
	}

	var snapshot models.MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached snapshot: %w", err)
	}

	return &snapshot, nil
}

// SetCachedSnapshot stores a snapshot with a TTL, replacing any previous
// entry for the symbol.
func (r *Repository) SetCachedSnapshot(ctx context.Context, snapshot *models.MarketSnapshot, ttl time.Duration) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("upsert", "market_data_cache")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO market_data_cache (symbol, data_type, data, expires_at)
		VALUES ($1, $2, $3, NOW() + $4::interval)
		ON CONFLICT (symbol, data_type)
		DO UPDATE SET data = EXCLUDED.data, expires_at = NOW() + $4::interval, created_at = NOW()
	`, snapshot.Symbol, snapshotDataType, data, ttl.String())

	if err != nil {
		metrics.RecordDBError("upsert", "market_data_cache")
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	return nil
}

// InvalidateSnapshot removes the cached snapshot for a symbol.
func (r *Repository) InvalidateSnapshot(ctx context.Context, symbol string) error {
	if err := r.checkDB(); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		DELETE FROM market_data_cache WHERE symbol = $1 AND data_type = $2
	`, symbol, snapshotDataType)

	if err != nil {
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}

	return nil
}

// CleanExpiredCache removes all expired cache entries and returns the count.
func (r *Repository) CleanExpiredCache(ctx context.Context) (int64, error) {
	if err := r.checkDB(); err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM market_data_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired cache: %w", err)
	}

	return tag.RowsAffected(), nil
}
