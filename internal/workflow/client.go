// Package workflow is the HTTP client for the automation backend that owns
// all durable dashboard state. Every read and write the dashboard performs
// goes through one of its webhook endpoints.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIKeyHeader authenticates every call to the workflow backend.
const APIKeyHeader = "x-n8n-apiKey"

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL    string
	APIKey     string
	BusinessID string
	Timeout    time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// do performs one webhook call. The tenant id is injected automatically:
// into the query string for GET requests, into the JSON body for everything
// else, never overriding a value the caller already set. An empty response
// body is valid; several workflow endpoints answer 200 with no content.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body map[string]any) (json.RawMessage, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	if query == nil {
		query = url.Values{}
	}
	var reader io.Reader
	if method == http.MethodGet {
		if query.Get("businessid") == "" {
			query.Set("businessid", c.cfg.BusinessID)
		}
	} else {
		if body == nil {
			body = map[string]any{}
		}
		if _, ok := body["business_id"]; !ok {
			body["business_id"] = c.cfg.BusinessID
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("workflow: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("workflow: build %s request: %w", path, err)
	}
	req.Header.Set(APIKeyHeader, c.cfg.APIKey)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workflow: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("workflow: read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("workflow: %s %s: status %d: %s", method, path, resp.StatusCode, snippet(payload))
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	return payload, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
