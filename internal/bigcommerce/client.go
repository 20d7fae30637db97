package bigcommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"go.uber.org/zap"
)

// ErrorDetails carries the raw remote failure context for operator triage.
type ErrorDetails struct {
	StatusCode int                    `json:"status_code"`
	RawBody    string                 `json:"raw_body"`
	ParsedBody map[string]interface{} `json:"parsed_body,omitempty"`
}

// Result is the uniform outcome of one remote request. A non-empty Error means
// the call failed (HTTP >= 400, transport failure, or a non-JSON body); Data
// then holds nothing. Callers test Failed(), never the HTTP status.
type Result struct {
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Details *ErrorDetails          `json:"details,omitempty"`
}

// Failed reports whether the request ended in an error result.
func (r *Result) Failed() bool {
	return r.Error != ""
}

// Client is a thin authenticated wrapper around the BigCommerce REST API.
// It performs no retries and no backoff; pacing is the batch processors' job.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient creates a client scoped to one store. Endpoints passed to Request
// include their API version, e.g. "v3/catalog/products" or "v2/orders".
func NewClient(apiBaseURL, storeHash, accessToken string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("%s/stores/%s", apiBaseURL, storeHash),
		token:      accessToken,
		logger:     util.GetLogger(),
	}
}

// Request performs one API call and normalizes the outcome into a Result.
// The returned Go error covers only request-construction mistakes (bad body,
// bad URL); ordinary API failures come back inside the Result.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "bigcommerce.Request")
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.RemoteRequestsTotal.WithLabelValues(method, "transport_error").Inc()
		c.logger.Error("Remote request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return &Result{
			Error:   fmt.Sprintf("transport failure: %v", err),
			Details: &ErrorDetails{},
		}, nil
	}
	defer resp.Body.Close()

	util.RemoteRequestDuration.Observe(time.Since(start).Seconds())
	util.RemoteRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Result{
			Error:   fmt.Sprintf("failed to read response body: %v", err),
			Details: &ErrorDetails{StatusCode: resp.StatusCode},
		}, nil
	}

	var parsed map[string]interface{}
	parseErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Remote API error",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(raw, 512)))
		return &Result{
			Error: apiErrorMessage(resp.StatusCode, parsed),
			Details: &ErrorDetails{
				StatusCode: resp.StatusCode,
				RawBody:    string(raw),
				ParsedBody: parsed,
			},
		}, nil
	}

	// 204s and empty bodies are successes with no payload.
	if len(bytes.TrimSpace(raw)) == 0 {
		return &Result{Data: map[string]interface{}{}}, nil
	}

	if parseErr != nil {
		c.logger.Warn("Remote returned non-JSON body",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return &Result{
			Error: "invalid JSON in response body",
			Details: &ErrorDetails{
				StatusCode: resp.StatusCode,
				RawBody:    string(raw),
			},
		}, nil
	}

	return &Result{Data: parsed}, nil
}

func apiErrorMessage(status int, parsed map[string]interface{}) string {
	if parsed != nil {
		if title, ok := parsed["title"].(string); ok && title != "" {
			return fmt.Sprintf("API error %d: %s", status, title)
		}
		if msg, ok := parsed["message"].(string); ok && msg != "" {
			return fmt.Sprintf("API error %d: %s", status, msg)
		}
	}
	return fmt.Sprintf("API error %d", status)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
