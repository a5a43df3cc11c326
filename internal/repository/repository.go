package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abarman/water-health-watch/internal/models"
)

// ErrStorageUnavailable wraps any failure to reach the backing store.
// Callers propagate it as a service-level failure; substituting empty data
// is a client-side concern.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Filter narrows list queries. Results are always ordered newest-first.
type Filter struct {
	Location *string
	Since    *time.Time
	Limit    int
}

type WaterReadingRepository interface {
	AddWaterReading(ctx context.Context, r *models.WaterReading) error
	ListWaterReadings(ctx context.Context, opts Filter) ([]models.WaterReading, error)
	LatestWaterReading(ctx context.Context) (*models.WaterReading, error)
	DistinctSensorsSince(ctx context.Context, since time.Time) (int, error)
	WaterQualityAverages(ctx context.Context, since time.Time) (*models.AvgWaterQuality, error)
}

type HealthCaseRepository interface {
	AddHealthCase(ctx context.Context, hc *models.HealthCase) error
	ListHealthCases(ctx context.Context, opts Filter) ([]models.HealthCase, error)
	CountCasesSince(ctx context.Context, since time.Time) (int, error)
}

type AlertRepository interface {
	AddAlert(ctx context.Context, a *models.Alert) error
	ListActiveAlerts(ctx context.Context, limit int) ([]models.Alert, error)
}

// Store is the full reading-store adapter.
type Store interface {
	WaterReadingRepository
	HealthCaseRepository
	AlertRepository
}
