// Package rates caches currency-pair conversion rates with a validity window.
package rates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

// DefaultWindow is how long a fetched rate stays valid.
const DefaultWindow = time.Hour

// ErrUnavailable means the rate service failed or its response lacked the
// requested rate. Callers must abort the conversion, never default to 1.
var ErrUnavailable = errors.New("exchange rate unavailable")

// Fetcher fetches the full rate table for a base currency.
type Fetcher interface {
	Latest(ctx context.Context, base domain.Currency) (map[domain.Currency]decimal.Decimal, error)
}

type pair struct {
	from, to domain.Currency
}

type entry struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// Cache holds one entry per ordered currency pair; A→B and B→A are
// cached independently.
type Cache struct {
	fetcher Fetcher
	window  time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[pair]entry
}

// New creates a cache. A non-positive window falls back to DefaultWindow.
func New(fetcher Fetcher, window time.Duration) *Cache {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Cache{
		fetcher: fetcher,
		window:  window,
		now:     time.Now,
		entries: make(map[pair]entry),
	}
}

// GetRate returns the conversion rate from one currency to another,
// fetching from the rate service on a miss or after the validity window.
func (c *Cache) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := pair{from: from, to: to}
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.window {
		rate := e.rate
		c.mu.Unlock()
		return rate, nil
	}
	c.mu.Unlock()

	table, err := c.fetcher.Latest(ctx, from)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rate, ok := table[to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no %s rate in %s table", ErrUnavailable, to, from)
	}

	c.mu.Lock()
	c.entries[key] = entry{rate: rate, fetchedAt: c.now()}
	c.mu.Unlock()

	return rate, nil
}
