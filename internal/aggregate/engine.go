package aggregate

import (
	"context"
	"time"

	"github.com/abarman/water-health-watch/internal/models"
	"github.com/abarman/water-health-watch/internal/repository"
)

// Rolling windows anchored at request time.
const (
	ReadingWindow = 24 * time.Hour
	CaseWindow    = 7 * 24 * time.Hour

	recentReadingCap = 10
	recentCaseCap    = 20
)

// SnapshotInputs is the aggregated portion of a dashboard snapshot.
type SnapshotInputs struct {
	RecentReadings  []models.WaterReading
	RecentCases     []models.HealthCase
	TotalCases7d    int
	ActiveSensors   int
	AvgWaterQuality *models.AvgWaterQuality
}

// Engine computes windowed statistics from the store. Pure reads, no side
// effects; deterministic given store state and now.
type Engine struct {
	readings repository.WaterReadingRepository
	cases    repository.HealthCaseRepository
}

func NewEngine(readings repository.WaterReadingRepository, cases repository.HealthCaseRepository) *Engine {
	return &Engine{
		readings: readings,
		cases:    cases,
	}
}

func (e *Engine) SnapshotInputs(ctx context.Context, now time.Time) (*SnapshotInputs, error) {
	readingSince := now.Add(-ReadingWindow)
	caseSince := now.Add(-CaseWindow)

	readings, err := e.readings.ListWaterReadings(ctx, repository.Filter{
		Since: &readingSince,
		Limit: recentReadingCap,
	})
	if err != nil {
		return nil, err
	}

	cases, err := e.cases.ListHealthCases(ctx, repository.Filter{
		Since: &caseSince,
		Limit: recentCaseCap,
	})
	if err != nil {
		return nil, err
	}

	totalCases, err := e.cases.CountCasesSince(ctx, caseSince)
	if err != nil {
		return nil, err
	}

	activeSensors, err := e.readings.DistinctSensorsSince(ctx, readingSince)
	if err != nil {
		return nil, err
	}

	avg, err := e.readings.WaterQualityAverages(ctx, readingSince)
	if err != nil {
		return nil, err
	}

	return &SnapshotInputs{
		RecentReadings:  readings,
		RecentCases:     cases,
		TotalCases7d:    totalCases,
		ActiveSensors:   activeSensors,
		AvgWaterQuality: avg,
	}, nil
}
