// Package config loads the recorder configuration from a YAML file, with
// secrets taken from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// TelegramConfig configures the chat transport.
type TelegramConfig struct {
	// BaseURL overrides the public Bot API endpoint, mainly for tests.
	BaseURL     string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	WebhookPath string `yaml:"webhookPath,omitempty"`
	// Token comes from the BOT_TOKEN environment variable.
	Token string `yaml:"-" validate:"required"`
}

// LedgerStoreConfig configures the external record store client.
type LedgerStoreConfig struct {
	BaseURL              string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	BaseID               string `yaml:"baseID" validate:"required"`
	TransactionsTable    string `yaml:"transactionsTable" validate:"required"`
	AccountsTable        string `yaml:"accountsTable" validate:"required"`
	AccountNameField     string `yaml:"accountNameField" validate:"required"`
	AccountCurrencyField string `yaml:"accountCurrencyField,omitempty"`
	// Token comes from the LEDGER_STORE_TOKEN environment variable.
	Token string `yaml:"-" validate:"required"`
}

// RatesConfig configures the exchange rate service and cache.
type RatesConfig struct {
	BaseURL    string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	TTLMinutes int    `yaml:"ttlMinutes,omitempty" validate:"min=0"`
}

// TTL returns the rate cache validity window.
func (r RatesConfig) TTL() time.Duration {
	return time.Duration(r.TTLMinutes) * time.Minute
}

// DirectoryConfig configures the account directory cache.
type DirectoryConfig struct {
	RefreshMinutes int `yaml:"refreshMinutes,omitempty" validate:"min=0"`
}

// RefreshInterval returns the background refresh period.
func (d DirectoryConfig) RefreshInterval() time.Duration {
	return time.Duration(d.RefreshMinutes) * time.Minute
}

// MatchingConfig selects the account matching strategy.
type MatchingConfig struct {
	Strategy    string  `yaml:"strategy,omitempty" validate:"omitempty,oneof=keyword fuzzy"`
	FuzzyCutoff float64 `yaml:"fuzzyCutoff,omitempty" validate:"min=0,max=1"`
}

// JournalConfig configures the posted-record journal. An empty path keeps
// the journal in memory.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Config is the full recorder configuration.
type Config struct {
	ListenAddr  string            `yaml:"listenAddr,omitempty"`
	LogLevel    string            `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	LedgerStore LedgerStoreConfig `yaml:"ledgerStore"`
	Rates       RatesConfig       `yaml:"rates"`
	Directory   DirectoryConfig   `yaml:"directory"`
	Matching    MatchingConfig    `yaml:"matching"`
	Journal     JournalConfig     `yaml:"journal"`
}

// Load reads, defaults and validates the configuration file.
func Load(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(strings.NewReader(string(buf)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("can't decode YAML from configuration file '%s': %w", filename, err)
	}

	cfg.applyDefaults()
	cfg.Telegram.Token = os.Getenv("BOT_TOKEN")
	cfg.LedgerStore.Token = os.Getenv("LEDGER_STORE_TOKEN")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Telegram.WebhookPath == "" {
		c.Telegram.WebhookPath = "/webhook"
	}
	if c.LedgerStore.BaseURL == "" {
		c.LedgerStore.BaseURL = "https://api.airtable.com/v0"
	}
	if c.Rates.BaseURL == "" {
		c.Rates.BaseURL = "https://open.er-api.com/v6"
	}
	if c.Rates.TTLMinutes == 0 {
		c.Rates.TTLMinutes = 60
	}
	if c.Directory.RefreshMinutes == 0 {
		c.Directory.RefreshMinutes = 5
	}
	if c.Matching.Strategy == "" {
		c.Matching.Strategy = "keyword"
	}
	if c.Matching.FuzzyCutoff == 0 {
		c.Matching.FuzzyCutoff = 0.5
	}
}
