// Package ledgerstore is the HTTP client for the external tabular record store.
package ledgerstore

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

	"github.com/ivayloh/ledgerbot/internal/directory"
	"github.com/ivayloh/ledgerbot/internal/domain"
)

// Config carries the connection and schema settings for the store.
type Config struct {
	BaseURL           string
	Token             string
	BaseID            string
	TransactionsTable string
	AccountsTable     string
	// AccountNameField is the account display field the directory is keyed by.
	AccountNameField string
	// AccountCurrencyField is the optional per-account currency column.
	AccountCurrencyField string
	Timeout              time.Duration
}

// Client talks to the record store over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a store client.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Record is one stored record.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateRecord creates one record in the transactions table and returns
// the assigned identifier.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	var created Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(c.cfg.TransactionsTable), body, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("ledger store returned no record id")
	}
	return created.ID, nil
}

// UpdateRecord patches the fields of one record.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]any) error {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return c.do(ctx, http.MethodPatch, c.tableURL(c.cfg.TransactionsTable)+"/"+id, body, nil)
}

// DeleteRecord deletes one record by identifier.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(c.cfg.TransactionsTable)+"/"+id, nil, nil)
}

// ListRecords fetches every record of a table, following the offset
// cursor to exhaustion. The filter expression is optional.
func (c *Client) ListRecords(ctx context.Context, table, filter string) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		query := url.Values{}
		if filter != "" {
			query.Set("filterByFormula", filter)
		}
		if offset != "" {
			query.Set("offset", offset)
		}
		endpoint := c.tableURL(table)
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Accounts lists the accounts table as directory rows.
func (c *Client) Accounts(ctx context.Context) ([]directory.Account, error) {
	records, err := c.ListRecords(ctx, c.cfg.AccountsTable, "")
	if err != nil {
		return nil, err
	}

	accounts := make([]directory.Account, 0, len(records))
	for _, rec := range records {
		name, _ := rec.Fields[c.cfg.AccountNameField].(string)
		acc := directory.Account{Ref: rec.ID, Name: name}
		if c.cfg.AccountCurrencyField != "" {
			if raw, ok := rec.Fields[c.cfg.AccountCurrencyField].(string); ok {
				acc.Currency = domain.Currency(strings.ToUpper(strings.TrimSpace(raw)))
			}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (c *Client) tableURL(table string) string {
	return c.cfg.BaseURL + "/" + c.cfg.BaseID + "/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("ledger store error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return fmt.Errorf("ledger store error [%d]: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
