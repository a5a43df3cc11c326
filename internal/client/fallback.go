package client

import (
	"time"

	"github.com/abarman/water-health-watch/internal/models"
)

// FallbackSnapshot is the fixed "no data available" dataset a caller may
// substitute when both the live response and the cache are unavailable. It
// is distinct from the cache: never live data, always the same shape.
func FallbackSnapshot(now time.Time) *models.DashboardSnapshot {
	return &models.DashboardSnapshot{
		WaterData: []models.WaterReading{
			{
				SensorID:           "OFFLINE",
				Location:           "Unknown",
				PH:                 7.0,
				Turbidity:          2.0,
				ContaminationLevel: 15,
				Timestamp:          now,
			},
		},
		HealthCases: []models.HealthCase{},
		Alerts: []models.Alert{
			{
				Type:      models.AlertTypeWaterQuality,
				Severity:  models.AlertSeverityLow,
				Location:  "Unknown",
				Message:   "Device not connected - check sensor connection",
				IsActive:  true,
				Timestamp: now,
			},
		},
		Stats: models.Statistics{
			ActiveAlerts: 1,
		},
		Weather: models.Weather{
			Temperature: 25,
			Humidity:    60,
			Forecast:    "No data available",
		},
	}
}

// FallbackSensorStatus is the static not-connected sensor state.
func FallbackSensorStatus() *models.SensorStatus {
	return &models.SensorStatus{Connected: false}
}
