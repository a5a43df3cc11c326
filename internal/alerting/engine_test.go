package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abarman/water-health-watch/internal/models"
	"github.com/abarman/water-health-watch/internal/prediction"
)

type stubPredictor struct {
	result *models.RiskResult
	err    error
}

func (s *stubPredictor) Predict(ctx context.Context, pctx models.PredictionContext) (*models.RiskResult, error) {
	return s.result, s.err
}

type mockAlertRepo struct {
	mu     sync.Mutex
	alerts []models.Alert
	addErr error
}

func (m *mockAlertRepo) AddAlert(ctx context.Context, a *models.Alert) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *mockAlertRepo) ListActiveAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []models.Alert
	for _, a := range m.alerts {
		if a.IsActive {
			active = append(active, a)
		}
	}
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (m *mockAlertRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

func newTestEngine(repo *mockAlertRepo, p Predictor) *Engine {
	e := NewEngine(repo, p, nil)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestEvaluateAndMaybeAlert_SeverityThresholds(t *testing.T) {
	tests := []struct {
		name         string
		riskLevel    float64
		wantAlert    bool
		wantSeverity models.AlertSeverity
	}{
		{name: "critical above 0.9", riskLevel: 0.95, wantAlert: true, wantSeverity: models.AlertSeverityCritical},
		{name: "high above 0.7", riskLevel: 0.8, wantAlert: true, wantSeverity: models.AlertSeverityHigh},
		{name: "high at 0.9 boundary", riskLevel: 0.9, wantAlert: true, wantSeverity: models.AlertSeverityHigh},
		{name: "none at 0.7 boundary", riskLevel: 0.7, wantAlert: false},
		{name: "none at low risk", riskLevel: 0.3, wantAlert: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAlertRepo{}
			engine := newTestEngine(repo, &stubPredictor{
				result: &models.RiskResult{RiskLevel: tt.riskLevel, RiskCategory: "x"},
			})

			result, err := engine.EvaluateAndMaybeAlert(context.Background(), models.PredictionContext{Location: "Guwahati"})
			if err != nil {
				t.Fatalf("EvaluateAndMaybeAlert failed: %v", err)
			}
			if result == nil || result.RiskLevel != tt.riskLevel {
				t.Fatalf("expected risk result returned on every branch, got %+v", result)
			}

			if !tt.wantAlert {
				if repo.count() != 0 {
					t.Fatalf("expected no alert for risk %v, got %d", tt.riskLevel, repo.count())
				}
				return
			}

			if repo.count() != 1 {
				t.Fatalf("expected 1 alert, got %d", repo.count())
			}
			alert := repo.alerts[0]
			if alert.Severity != tt.wantSeverity {
				t.Errorf("expected severity %s, got %s", tt.wantSeverity, alert.Severity)
			}
			if alert.Type != models.AlertTypeOutbreak {
				t.Errorf("expected outbreak alert, got %s", alert.Type)
			}
			if !alert.IsActive {
				t.Error("expected created alert to be active")
			}
		})
	}
}

func TestEvaluateAndMaybeAlert_MessageFormat(t *testing.T) {
	repo := &mockAlertRepo{}
	engine := newTestEngine(repo, &stubPredictor{
		result: &models.RiskResult{RiskLevel: 0.95, RiskCategory: "high"},
	})

	if _, err := engine.EvaluateAndMaybeAlert(context.Background(), models.PredictionContext{Location: "Guwahati"}); err != nil {
		t.Fatalf("EvaluateAndMaybeAlert failed: %v", err)
	}

	if repo.count() != 1 {
		t.Fatalf("expected 1 alert, got %d", repo.count())
	}
	alert := repo.alerts[0]
	if alert.Message != "High outbreak risk detected: 95.0%" {
		t.Errorf("unexpected message: %q", alert.Message)
	}
	if alert.Location != "Guwahati" {
		t.Errorf("expected location Guwahati, got %s", alert.Location)
	}

	var stored models.RiskResult
	if err := json.Unmarshal(alert.Prediction, &stored); err != nil {
		t.Fatalf("prediction payload not decodable: %v", err)
	}
	if stored.RiskLevel != 0.95 {
		t.Errorf("prediction payload altered: %+v", stored)
	}
}

func TestEvaluateAndMaybeAlert_UnknownLocation(t *testing.T) {
	repo := &mockAlertRepo{}
	engine := newTestEngine(repo, &stubPredictor{
		result: &models.RiskResult{RiskLevel: 0.8},
	})

	if _, err := engine.EvaluateAndMaybeAlert(context.Background(), models.PredictionContext{}); err != nil {
		t.Fatalf("EvaluateAndMaybeAlert failed: %v", err)
	}
	if repo.count() != 1 || repo.alerts[0].Location != "Unknown" {
		t.Errorf("expected 'Unknown' location fallback, got %+v", repo.alerts)
	}
}

func TestEvaluateAndMaybeAlert_TransportFailure(t *testing.T) {
	repo := &mockAlertRepo{}
	engine := newTestEngine(repo, &stubPredictor{
		err: prediction.ErrTransport,
	})

	result, err := engine.EvaluateAndMaybeAlert(context.Background(), models.PredictionContext{Location: "Guwahati"})
	if !errors.Is(err, prediction.ErrTransport) {
		t.Fatalf("expected transport failure to propagate, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on transport failure, got %+v", result)
	}
	if repo.count() != 0 {
		t.Errorf("expected no alert on transport failure, got %d", repo.count())
	}
}

func TestEvaluateAndMaybeAlert_RepeatedHighRiskCreatesNewAlerts(t *testing.T) {
	repo := &mockAlertRepo{}
	engine := newTestEngine(repo, &stubPredictor{
		result: &models.RiskResult{RiskLevel: 0.85},
	})

	for i := 0; i < 3; i++ {
		if _, err := engine.EvaluateAndMaybeAlert(context.Background(), models.PredictionContext{Location: "Guwahati"}); err != nil {
			t.Fatalf("EvaluateAndMaybeAlert failed: %v", err)
		}
	}

	// No deduplication: each qualifying call creates its own alert
	if repo.count() != 3 {
		t.Errorf("expected 3 alerts from 3 evaluations, got %d", repo.count())
	}
	if repo.alerts[0].ID == repo.alerts[1].ID {
		t.Error("expected distinct alert identities")
	}
}

func TestCreateAlert_Manual(t *testing.T) {
	repo := &mockAlertRepo{}
	engine := newTestEngine(repo, &stubPredictor{})

	alert := &models.Alert{
		Type:     models.AlertTypeWaterQuality,
		Severity: models.AlertSeverityMedium,
		Location: "Shillong",
		Message:  "pH levels slightly elevated",
	}
	if err := engine.CreateAlert(context.Background(), alert); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	if alert.ID == "" {
		t.Error("expected assigned ID")
	}
	if !alert.IsActive {
		t.Error("expected manual alert to default to active")
	}
	if alert.Timestamp.IsZero() {
		t.Error("expected assigned timestamp")
	}

	bad := &models.Alert{Type: "volcano", Severity: models.AlertSeverityLow, Location: "X", Message: "m"}
	if err := engine.CreateAlert(context.Background(), bad); err == nil || !strings.Contains(err.Error(), "invalid alert type") {
		t.Errorf("expected invalid type error, got %v", err)
	}
}

func TestListActive_PassesThrough(t *testing.T) {
	repo := &mockAlertRepo{alerts: []models.Alert{
		{ID: "a", IsActive: true},
		{ID: "b", IsActive: false},
	}}
	engine := newTestEngine(repo, &stubPredictor{})

	active, err := engine.ListActive(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "a" {
		t.Errorf("expected only active alert 'a', got %+v", active)
	}
}
