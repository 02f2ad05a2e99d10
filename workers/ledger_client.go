// workers/ledger_client.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClaimRequest is the verification claim submitted to the ledger service
// when a goal completes.
type ClaimRequest struct {
	GoalID       string  `json:"goal_id"`
	Amount       float64 `json:"amount"`
	PayerContext string  `json:"payer_context"`
}

// ClaimResponse carries the executed transaction's reference.
type ClaimResponse struct {
	TransactionReference string `json:"transaction_reference"`
}

// LedgerClient executes payouts. Failures must propagate as retryable
// errors — the caller leaves the goal uncompleted and the next cycle
// reattempts, so a swallowed error here would strand a paid-for streak.
type LedgerClient interface {
	SubmitClaim(ctx context.Context, claim ClaimRequest) (*ClaimResponse, error)
}

// HTTPLedgerClient submits claims to the ledger service over REST.
type HTTPLedgerClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHTTPLedgerClient(baseURL, token string) *HTTPLedgerClient {
	return &HTTPLedgerClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPLedgerClient) SubmitClaim(ctx context.Context, claim ClaimRequest) (*ClaimResponse, error) {
	body, err := json.Marshal(claim)
	if err != nil {
		return nil, fmt.Errorf("failed to encode claim: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/claims", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create claim request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ledger service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ledger service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out ClaimResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode ledger response: %w", err)
	}
	if out.TransactionReference == "" {
		return nil, fmt.Errorf("ledger service returned empty transaction reference")
	}
	return &out, nil
}
