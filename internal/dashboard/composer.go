package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abarman/water-health-watch/internal/aggregate"
	"github.com/abarman/water-health-watch/internal/models"
)

// ErrAggregation wraps any dependency failure while composing a snapshot.
// The snapshot is all-or-nothing; there is no partial success.
var ErrAggregation = errors.New("dashboard aggregation failed")

const activeAlertCap = 10

// AlertLister is the derivation engine's read side.
type AlertLister interface {
	ListActive(ctx context.Context, limit int) ([]models.Alert, error)
}

// WeatherProvider supplies the opaque weather block.
type WeatherProvider interface {
	Current(ctx context.Context) models.Weather
}

// Composer assembles the dashboard snapshot from the aggregation engine,
// the alert engine and the injected weather provider.
type Composer struct {
	agg     *aggregate.Engine
	alerts  AlertLister
	weather WeatherProvider
}

func NewComposer(agg *aggregate.Engine, alerts AlertLister, weather WeatherProvider) *Composer {
	return &Composer{
		agg:     agg,
		alerts:  alerts,
		weather: weather,
	}
}

func (c *Composer) Snapshot(ctx context.Context, now time.Time) (*models.DashboardSnapshot, error) {
	inputs, err := c.agg.SnapshotInputs(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregation, err)
	}

	alerts, err := c.alerts.ListActive(ctx, activeAlertCap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregation, err)
	}

	// Handlers marshal these as JSON arrays even when empty.
	if inputs.RecentReadings == nil {
		inputs.RecentReadings = []models.WaterReading{}
	}
	if inputs.RecentCases == nil {
		inputs.RecentCases = []models.HealthCase{}
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	return &models.DashboardSnapshot{
		WaterData:   inputs.RecentReadings,
		HealthCases: inputs.RecentCases,
		Alerts:      alerts,
		Stats: models.Statistics{
			TotalCases:      inputs.TotalCases7d,
			ActiveSensors:   inputs.ActiveSensors,
			ActiveAlerts:    len(alerts),
			AvgWaterQuality: inputs.AvgWaterQuality,
		},
		Weather: c.weather.Current(ctx),
	}, nil
}
