package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abarman/water-health-watch/internal/models"
	"github.com/abarman/water-health-watch/internal/repository"
)

// Risk thresholds are fixed constants, never inferred from data.
const (
	BaseRiskThreshold     = 0.7
	CriticalRiskThreshold = 0.9
)

// Predictor is the boundary of the external risk-prediction collaborator.
type Predictor interface {
	Predict(ctx context.Context, pctx models.PredictionContext) (*models.RiskResult, error)
}

// Engine derives alerts from prediction results. Every evaluation is
// independent: repeated high-risk predictions for the same location each
// create a new alert.
type Engine struct {
	repo       repository.AlertRepository
	predictor  Predictor
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewEngine(repo repository.AlertRepository, predictor Predictor, dispatcher *Dispatcher) *Engine {
	return &Engine{
		repo:       repo,
		predictor:  predictor,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// EvaluateAndMaybeAlert calls the prediction service and, when the risk
// level exceeds the base threshold, persists an outbreak alert. The risk
// result is returned whether or not an alert fired; a transport failure is
// propagated and creates nothing.
func (e *Engine) EvaluateAndMaybeAlert(ctx context.Context, pctx models.PredictionContext) (*models.RiskResult, error) {
	result, err := e.predictor.Predict(ctx, pctx)
	if err != nil {
		return nil, err
	}

	if result.RiskLevel <= BaseRiskThreshold {
		return result, nil
	}

	severity := models.AlertSeverityHigh
	if result.RiskLevel > CriticalRiskThreshold {
		severity = models.AlertSeverityCritical
	}

	location := pctx.Location
	if location == "" {
		location = "Unknown"
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("error encoding prediction payload: %w", err)
	}

	alert := &models.Alert{
		ID:         uuid.NewString(),
		Type:       models.AlertTypeOutbreak,
		Severity:   severity,
		Location:   location,
		Message:    fmt.Sprintf("High outbreak risk detected: %.1f%%", result.RiskLevel*100),
		Prediction: raw,
		IsActive:   true,
		Timestamp:  e.now(),
	}

	if err := e.repo.AddAlert(ctx, alert); err != nil {
		return nil, err
	}

	if e.dispatcher != nil {
		e.dispatcher.Submit(alert)
	}

	slog.Info("outbreak alert created", "id", alert.ID, "severity", alert.Severity,
		"location", alert.Location, "risk_level", result.RiskLevel)

	return result, nil
}

// CreateAlert persists a manually submitted alert, assigning identity and
// defaulting it to active.
func (e *Engine) CreateAlert(ctx context.Context, a *models.Alert) error {
	if !a.Type.Valid() {
		return fmt.Errorf("invalid alert type: %q", a.Type)
	}
	if !a.Severity.Valid() {
		return fmt.Errorf("invalid alert severity: %q", a.Severity)
	}

	a.ID = uuid.NewString()
	a.IsActive = true
	if a.Timestamp.IsZero() {
		a.Timestamp = e.now()
	}

	if err := e.repo.AddAlert(ctx, a); err != nil {
		return err
	}

	if e.dispatcher != nil {
		e.dispatcher.Submit(a)
	}
	return nil
}

// ListActive returns active alerts, newest-first.
func (e *Engine) ListActive(ctx context.Context, limit int) ([]models.Alert, error) {
	return e.repo.ListActiveAlerts(ctx, limit)
}
