package repository

import (
	"context"
	"time"

	"stock-scout/models"

	"github.com/google/uuid"
)

// RepositoryInterface defines all repository operations
type RepositoryInterface interface {
	// Health and lifecycle
	Close()
	Health(ctx context.Context) error
	Migrate(ctx context.Context) error

	// Screening runs
	CreateScreeningRun(ctx context.Context, run *models.ScreeningRun) error
	UpdateScreeningRun(ctx context.Context, run *models.ScreeningRun) error
	GetScreeningRun(ctx context.Context, id uuid.UUID) (*models.ScreeningRun, error)
	GetLatestScreeningRun(ctx context.Context) (*models.ScreeningRun, error)
	GetScreeningRunHistory(ctx context.Context, limit int) ([]*models.ScreeningRun, error)

	// Snapshot cache
	GetCachedSnapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error)
	SetCachedSnapshot(ctx context.Context, snapshot *models.MarketSnapshot, ttl time.Duration) error
	InvalidateSnapshot(ctx context.Context, symbol string) error
	CleanExpiredCache(ctx context.Context) (int64, error)
}

// Compile-time interface verification
var _ RepositoryInterface = (*Repository)(nil)
