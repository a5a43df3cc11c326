// Package client is the resilience layer in front of the health-watch API:
// read responses are cached and served for up to five minutes when the
// service is unreachable, and writes are rejected fast while the
// connectivity monitor reports offline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abarman/water-health-watch/internal/models"
)

var (
	// ErrOfflineWriteRejected is returned before any network activity when
	// a state-changing call is attempted while offline.
	ErrOfflineWriteRejected = errors.New("write rejected while offline")

	// ErrNoFreshData means the live call failed and no sufficiently fresh
	// cached payload exists; callers may fall back to FallbackSnapshot.
	ErrNoFreshData = errors.New("no live response and cache expired")
)

const requestTimeout = 10 * time.Second

// Client wraps all outbound calls to the health-watch API. Cache and
// monitor are per-instance, not process globals.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *ResponseCache
	monitor *Monitor
}

func New(baseURL string, monitor *Monitor) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		cache:   NewResponseCache(),
		monitor: monitor,
	}
}

// Monitor exposes the connectivity monitor, e.g. for wiring a Banner.
func (c *Client) Monitor() *Monitor {
	return c.monitor
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Prediction json.RawMessage `json:"prediction"`
	Error      string          `json:"error"`
}

// getCached performs a read; on failure it serves the cached payload for
// the endpoint key if younger than CacheTTL, otherwise the failure is
// propagated wrapped in ErrNoFreshData.
func (c *Client) getCached(ctx context.Context, path string) (json.RawMessage, error) {
	data, err := c.get(ctx, path)
	if err == nil {
		c.cache.Put(path, data)
		return data, nil
	}

	if cached, ok := c.cache.Get(path); ok {
		return cached, nil
	}
	return nil, fmt.Errorf("GET %s: %w", path, errors.Join(ErrNoFreshData, err))
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	if !c.monitor.Online() {
		return nil, fmt.Errorf("POST %s: %w", path, ErrOfflineWriteRejected)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("POST %s: %s (status %d)", path, env.Error, resp.StatusCode)
	}
	return &env, nil
}

func decodeEnvelope(resp *http.Response) (json.RawMessage, error) {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("service error: %s (status %d)", env.Error, resp.StatusCode)
	}
	return env.Data, nil
}

func listPath(base, location string, limit int) string {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func (c *Client) Dashboard(ctx context.Context) (*models.DashboardSnapshot, error) {
	data, err := c.getCached(ctx, "/api/dashboard")
	if err != nil {
		return nil, err
	}
	var snapshot models.DashboardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error decoding dashboard: %w", err)
	}
	return &snapshot, nil
}

func (c *Client) Alerts(ctx context.Context) ([]models.Alert, error) {
	data, err := c.getCached(ctx, "/api/alerts")
	if err != nil {
		return nil, err
	}
	var alerts []models.Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, fmt.Errorf("error decoding alerts: %w", err)
	}
	return alerts, nil
}

func (c *Client) WaterData(ctx context.Context, location string, limit int) ([]models.WaterReading, error) {
	data, err := c.getCached(ctx, listPath("/api/water-data", location, limit))
	if err != nil {
		return nil, err
	}
	var readings []models.WaterReading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("error decoding water data: %w", err)
	}
	return readings, nil
}

func (c *Client) HealthData(ctx context.Context, location string, limit int) ([]models.HealthCase, error) {
	data, err := c.getCached(ctx, listPath("/api/health-data", location, limit))
	if err != nil {
		return nil, err
	}
	var cases []models.HealthCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("error decoding health data: %w", err)
	}
	return cases, nil
}

func (c *Client) SensorStatus(ctx context.Context) (*models.SensorStatus, error) {
	data, err := c.getCached(ctx, "/api/sensor/status")
	if err != nil {
		return nil, err
	}
	var status models.SensorStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("error decoding sensor status: %w", err)
	}
	return &status, nil
}

func (c *Client) SubmitWaterReading(ctx context.Context, reading models.WaterReading) (*models.WaterReading, error) {
	env, err := c.post(ctx, "/api/water-data", reading)
	if err != nil {
		return nil, err
	}
	var stored models.WaterReading
	if err := json.Unmarshal(env.Data, &stored); err != nil {
		return nil, fmt.Errorf("error decoding stored reading: %w", err)
	}
	return &stored, nil
}

func (c *Client) SubmitHealthCase(ctx context.Context, hc models.HealthCase) (*models.HealthCase, error) {
	env, err := c.post(ctx, "/api/health-data", hc)
	if err != nil {
		return nil, err
	}
	var stored models.HealthCase
	if err := json.Unmarshal(env.Data, &stored); err != nil {
		return nil, fmt.Errorf("error decoding stored case: %w", err)
	}
	return &stored, nil
}

func (c *Client) CreateAlert(ctx context.Context, alert models.Alert) (*models.Alert, error) {
	env, err := c.post(ctx, "/api/alerts", alert)
	if err != nil {
		return nil, err
	}
	var stored models.Alert
	if err := json.Unmarshal(env.Data, &stored); err != nil {
		return nil, fmt.Errorf("error decoding stored alert: %w", err)
	}
	return &stored, nil
}

func (c *Client) TriggerPrediction(ctx context.Context, pctx models.PredictionContext) (*models.RiskResult, error) {
	env, err := c.post(ctx, "/api/predict", pctx)
	if err != nil {
		return nil, err
	}
	var result models.RiskResult
	if err := json.Unmarshal(env.Prediction, &result); err != nil {
		return nil, fmt.Errorf("error decoding prediction: %w", err)
	}
	return &result, nil
}
