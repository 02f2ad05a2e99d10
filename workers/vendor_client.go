// workers/vendor_client.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// VendorClient is the wearable vendor's data API as the verification engine
// sees it. Auth failures and network errors surface as errors the caller
// treats as "no data available", never as fatal.
type VendorClient interface {
	IsAuthenticated(ctx context.Context) bool
	GetAllHealthData(ctx context.Context, days int) ([]map[string]any, error)
}

// HTTPVendorClient talks to the vendor REST API with a bearer token.
type HTTPVendorClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHTTPVendorClient(baseURL, token string) *HTTPVendorClient {
	return &HTTPVendorClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsAuthenticated probes the vendor profile endpoint. Any failure means we
// cannot pull data right now.
func (c *HTTPVendorClient) IsAuthenticated(ctx context.Context) bool {
	if c.Token == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/user/profile", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// GetAllHealthData fetches the last N days of daily records. The payload
// shape varies across vendor API versions, so entries come back as raw maps
// for the normalizer to sort out.
func (c *HTTPVendorClient) GetAllHealthData(ctx context.Context, days int) ([]map[string]any, error) {
	u, err := url.Parse(c.BaseURL + "/v1/health/daily")
	if err != nil {
		return nil, fmt.Errorf("failed to parse vendor URL: %w", err)
	}
	q := u.Query()
	q.Set("days", strconv.Itoa(days))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call vendor API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("vendor API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode vendor response: %w", err)
	}
	return response.Records, nil
}
