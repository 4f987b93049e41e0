package ledgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		BaseURL:              serverURL,
		Token:                "secret",
		BaseID:               "appBase",
		TransactionsTable:    "Acc Transaction",
		AccountsTable:        "All Accounts",
		AccountNameField:     "REG",
		AccountCurrencyField: "CURRENCY",
		Timeout:              time.Second,
	})
}

func TestCreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/appBase/Acc%20Transaction", r.URL.String())
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "2025-06-01", payload.Fields["DATE"])

		fmt.Fprint(w, `{"id":"rec123","fields":{}}`)
	}))
	defer server.Close()

	id, err := newTestClient(server.URL).CreateRecord(context.Background(), map[string]any{"DATE": "2025-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "rec123", id)
}

func TestCreateRecordAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"unknown column"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateRecord(context.Background(), map[string]any{"BAD": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id":"rec123"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	require.NoError(t, client.UpdateRecord(context.Background(), "rec123", map[string]any{"NOTES": "lunch"}))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/appBase/Acc Transaction/rec123", gotPath)

	require.NoError(t, client.DeleteRecord(context.Background(), "rec123"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestAccountsFollowsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/appBase/All Accounts", r.URL.Path)
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{"REG":"Revolut Ivan","CURRENCY":"eur"}}],"offset":"page2"}`)
			return
		}
		require.Equal(t, "page2", r.URL.Query().Get("offset"))
		fmt.Fprint(w, `{"records":[{"id":"rec2","fields":{"REG":"DSK Maria"}}]}`)
	}))
	defer server.Close()

	accounts, err := newTestClient(server.URL).Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Revolut Ivan", accounts[0].Name)
	assert.Equal(t, domain.CurrencyEUR, accounts[0].Currency)
	assert.Equal(t, "rec2", accounts[1].Ref)
	assert.Equal(t, domain.Currency(""), accounts[1].Currency)
}

func TestListRecordsWithFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `{STATUS}="Pending"`, r.URL.Query().Get("filterByFormula"))
		fmt.Fprint(w, `{"records":[]}`)
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).ListRecords(context.Background(), "Acc Transaction", `{STATUS}="Pending"`)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTransportErrorIsReported(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	_, err := client.CreateRecord(context.Background(), map[string]any{})
	assert.Error(t, err)
}
