package models

import (
	"encoding/json"
	"time"
)

type AlertType string

const (
	AlertTypeOutbreak     AlertType = "outbreak"
	AlertTypeWaterQuality AlertType = "water_quality"
	AlertTypeWeather      AlertType = "weather"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertTypeOutbreak, AlertTypeWaterQuality, AlertTypeWeather:
		return true
	}
	return false
}

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

func (s AlertSeverity) Valid() bool {
	switch s {
	case AlertSeverityLow, AlertSeverityMedium, AlertSeverityHigh, AlertSeverityCritical:
		return true
	}
	return false
}

// Alert is created by the derivation engine (or submitted manually) and
// stays active once stored; acknowledgement is out of scope.
// Prediction carries the external collaborator's result verbatim, so its
// shape is kept opaque.
type Alert struct {
	ID         string          `json:"id"`
	Type       AlertType       `json:"type" binding:"required"`
	Severity   AlertSeverity   `json:"severity" binding:"required"`
	Location   string          `json:"location" binding:"required"`
	Message    string          `json:"message" binding:"required"`
	Prediction json.RawMessage `json:"prediction,omitempty"`
	IsActive   bool            `json:"isActive"`
	Timestamp  time.Time       `json:"timestamp"`
}
