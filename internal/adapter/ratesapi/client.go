// Package ratesapi is the HTTP client for the external exchange rate service.
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

// Client fetches full rate tables, one call per base currency.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rate service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type latestResponse struct {
	Result string                 `json:"result"`
	Rates  map[string]json.Number `json:"rates"`
}

// Latest returns the rate table for a base currency.
// GET {base}/latest/{CODE} → {"result":"success","rates":{...}}.
func (c *Client) Latest(ctx context.Context, base domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest/"+string(base), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate service error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result latestResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.Result != "success" {
		return nil, fmt.Errorf("rate service returned result %q", result.Result)
	}

	table := make(map[domain.Currency]decimal.Decimal, len(result.Rates))
	for code, num := range result.Rates {
		rate, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s: %w", num.String(), code, err)
		}
		table[domain.Currency(code)] = rate
	}
	return table, nil
}
