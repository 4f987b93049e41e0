package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
ledgerStore:
  baseID: appBase
  transactionsTable: Acc Transaction
  accountsTable: All Accounts
  accountNameField: REG
`

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "12345:token")
	t.Setenv("LEDGER_STORE_TOKEN", "patXYZ")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/webhook", cfg.Telegram.WebhookPath)
	assert.Equal(t, "12345:token", cfg.Telegram.Token)
	assert.Equal(t, "patXYZ", cfg.LedgerStore.Token)
	assert.Equal(t, "https://api.airtable.com/v0", cfg.LedgerStore.BaseURL)
	assert.Equal(t, time.Hour, cfg.Rates.TTL())
	assert.Equal(t, 5*time.Minute, cfg.Directory.RefreshInterval())
	assert.Equal(t, "keyword", cfg.Matching.Strategy)
	assert.Equal(t, 0.5, cfg.Matching.FuzzyCutoff)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "12345:token")
	t.Setenv("LEDGER_STORE_TOKEN", "patXYZ")

	cfg, err := Load(writeConfig(t, minimalConfig+`
listenAddr: ":9090"
matching:
  strategy: fuzzy
  fuzzyCutoff: 0.7
rates:
  ttlMinutes: 30
journal:
  path: /var/lib/ledgerbot/journal.db
`))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "fuzzy", cfg.Matching.Strategy)
	assert.Equal(t, 0.7, cfg.Matching.FuzzyCutoff)
	assert.Equal(t, 30*time.Minute, cfg.Rates.TTL())
	assert.Equal(t, "/var/lib/ledgerbot/journal.db", cfg.Journal.Path)
}

func TestLoadMissingSecrets(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LEDGER_STORE_TOKEN", "")

	_, err := Load(writeConfig(t, minimalConfig))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("BOT_TOKEN", "12345:token")
	t.Setenv("LEDGER_STORE_TOKEN", "patXYZ")

	_, err := Load(writeConfig(t, minimalConfig+"\nnope: true\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadStrategy(t *testing.T) {
	t.Setenv("BOT_TOKEN", "12345:token")
	t.Setenv("LEDGER_STORE_TOKEN", "patXYZ")

	_, err := Load(writeConfig(t, minimalConfig+`
matching:
  strategy: soundex
`))
	assert.Error(t, err)
}
