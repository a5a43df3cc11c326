package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abarman/water-health-watch/internal/models"
)

// ErrTransport wraps any failure to obtain a prediction: connection errors,
// timeouts, non-200 responses, undecodable bodies. No alert is derived from
// a failed prediction.
var ErrTransport = errors.New("prediction service unreachable")

const defaultTimeout = 10 * time.Second

// Client is a pass-through adapter for the external risk-prediction
// service. It performs no retries and no caching.
type Client struct {
	url    string
	client *http.Client
}

func New(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *Client) Predict(ctx context.Context, pctx models.PredictionContext) (*models.RiskResult, error) {
	body, err := json.Marshal(pctx)
	if err != nil {
		return nil, fmt.Errorf("error encoding prediction context: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d - status: %s", ErrTransport, resp.StatusCode, resp.Status)
	}

	var result models.RiskResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: error decoding resp.Body: %v", ErrTransport, err)
	}

	return &result, nil
}
