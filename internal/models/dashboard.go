package models

import "time"

// AvgWaterQuality holds window means over water readings. A nil value means
// the window was empty; zeroes are never substituted.
type AvgWaterQuality struct {
	AvgPH        float64 `json:"avgPH"`
	AvgTurbidity float64 `json:"avgTurbidity"`
}

// Statistics is the derived stats block of a dashboard snapshot. Windows
// are rolling and anchored at request time, never cached server-side.
type Statistics struct {
	TotalCases      int              `json:"totalCases"`
	ActiveSensors   int              `json:"activeSensors"`
	ActiveAlerts    int              `json:"activeAlerts"`
	AvgWaterQuality *AvgWaterQuality `json:"avgWaterQuality,omitempty"`
}

// Weather is an opaque snippet supplied by an external provider.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	Forecast    string  `json:"forecast"`
}

// DashboardSnapshot is recomputed on every request; it has no identity and
// no lifecycle beyond the response.
type DashboardSnapshot struct {
	WaterData   []WaterReading `json:"waterData"`
	HealthCases []HealthCase   `json:"healthCases"`
	Alerts      []Alert        `json:"alerts"`
	Stats       Statistics     `json:"stats"`
	Weather     Weather        `json:"weather"`
}

// SensorStatus reports whether the sensor fleet is considered connected,
// derived from the most recent stored reading.
type SensorStatus struct {
	Connected      bool          `json:"connected"`
	LastUpdate     *time.Time    `json:"lastUpdate"`
	CurrentReading *WaterReading `json:"currentReading"`
}
