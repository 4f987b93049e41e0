// Package directory caches the account directory sourced from the ledger store.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ivayloh/ledgerbot/internal/domain"
	"github.com/ivayloh/ledgerbot/internal/match"
)

// Account is one raw account row from the store.
type Account struct {
	Ref      string
	Name     string
	Currency domain.Currency
}

// Entry is one cached directory entry, keyed by the normalized account name.
type Entry struct {
	Label    string
	Ref      string
	Currency domain.Currency
}

// Source fetches the full account record set, following pagination to
// exhaustion.
type Source interface {
	Accounts(ctx context.Context) ([]Account, error)
}

// Directory is a refreshable in-memory mapping from normalized account
// names to entries. Reads share a snapshot map; refresh swaps the whole
// map so stale accounts drop out.
type Directory struct {
	source Source

	mu      sync.RWMutex
	entries map[string]Entry
	fetched bool
}

// New creates an empty directory backed by the given source.
func New(source Source) *Directory {
	return &Directory{source: source}
}

// Get returns the cached directory, populating it on first use. When force
// is true the cache is rebuilt regardless. The returned map is a shared
// snapshot and must not be mutated.
func (d *Directory) Get(ctx context.Context, force bool) (map[string]Entry, error) {
	d.mu.RLock()
	if d.fetched && !force {
		entries := d.entries
		d.mu.RUnlock()
		return entries, nil
	}
	d.mu.RUnlock()
	return d.Refresh(ctx)
}

// Refresh rebuilds the directory from scratch. Duplicate normalized names
// resolve last-write-wins in source order.
func (d *Directory) Refresh(ctx context.Context) (map[string]Entry, error) {
	accounts, err := d.source.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh account directory: %w", err)
	}

	entries := make(map[string]Entry, len(accounts))
	for _, acc := range accounts {
		if acc.Name == "" {
			continue
		}
		entries[match.Normalize(acc.Name)] = Entry{
			Label:    acc.Name,
			Ref:      acc.Ref,
			Currency: acc.Currency,
		}
	}

	d.mu.Lock()
	d.entries = entries
	d.fetched = true
	d.mu.Unlock()

	return entries, nil
}

// StartRefreshing refreshes the directory every interval until ctx is done.
func (d *Directory) StartRefreshing(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := d.Refresh(ctx); err != nil {
					logger.Warn("account directory refresh failed", "error", err)
				}
			}
		}
	}()
}

// Keys returns the normalized keys of a directory snapshot.
func Keys(entries map[string]Entry) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	return keys
}
