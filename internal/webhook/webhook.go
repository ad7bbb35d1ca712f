package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client delivers bill-analysis requests to the external workflow that
// actually generates analyses. This service only triggers runs; results land
// in simple_bill_analysis out of band.
type Client struct {
	url    string
	secret string
	hc     *http.Client
	logger func(format string, v ...any)
}

// NewClient creates a new client. If httpClient is nil, a default with timeout is used.
func NewClient(url, secret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		url:    url,
		secret: secret,
		hc:     httpClient,
		logger: func(format string, v ...any) {
			fmt.Fprintf(io.Discard, format, v...)
		},
	}
}

// SetLogger allows injecting a simple printf-like logger for debugging.
func (c *Client) SetLogger(l func(format string, v ...any)) {
	if l == nil {
		return
	}
	c.logger = l
}

// AnalysisRequest is the payload posted to the workflow.
type AnalysisRequest struct {
	BillID     string `json:"bill_id"`
	BillNumber string `json:"bill_number"`
	Title      string `json:"title"`
	Force      bool   `json:"force,omitempty"`
}

// TriggerAnalysis asks the workflow to generate an analysis run. Any 2xx
// response means the run was accepted; the returned run ID is best-effort
// (empty when the workflow's response carries none).
func (c *Client) TriggerAnalysis(ctx context.Context, reqBody AnalysisRequest) (string, error) {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("webhook marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("webhook new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	lat := time.Since(start)
	c.logger("workflow request url=%s bill=%s status_err=%v latency=%s", c.url, reqBody.BillID, err, lat)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	// Workflow responses vary; look for a run identifier in the common spots.
	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil
	}
	for _, key := range []string{"run_id", "id", "workflow_run_id"} {
		if v, ok := parsed[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", nil
}

// NewClientFromEnv builds the client from ANALYSIS_WEBHOOK_URL and
// ANALYSIS_WEBHOOK_SECRET.
func NewClientFromEnv() *Client {
	url := os.Getenv("ANALYSIS_WEBHOOK_URL")
	secret := os.Getenv("ANALYSIS_WEBHOOK_SECRET")
	if url == "" {
		url = "http://localhost:5678/webhook/bill-analysis"
	}
	return NewClient(url, secret, nil)
}
