// Package journal remembers the most recently posted record pair per user
// so note and delete follow-ups can find it.
package journal

import (
	"context"
	"errors"
	"sync"
)

// ErrNoRecords means the user has no posted pair on file.
var ErrNoRecords = errors.New("no recent records for user")

// Pair holds the store identifiers of one posted debit/credit pair.
type Pair struct {
	DebitID  string
	CreditID string
}

// IDs returns both identifiers, debit leg first.
func (p Pair) IDs() []string {
	return []string{p.DebitID, p.CreditID}
}

// Journal stores the last posted pair per user. The ledger store remains
// the durable source of truth; implementations only keep pointers into it.
type Journal interface {
	SetLast(ctx context.Context, userID string, pair Pair) error
	Last(ctx context.Context, userID string) (Pair, error)
	Clear(ctx context.Context, userID string) error
	Close() error
}

// Memory is the default in-process journal; entries vanish on restart.
type Memory struct {
	mu    sync.Mutex
	pairs map[string]Pair
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{pairs: make(map[string]Pair)}
}

func (m *Memory) SetLast(ctx context.Context, userID string, pair Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[userID] = pair
	return nil
}

func (m *Memory) Last(ctx context.Context, userID string) (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pair, ok := m.pairs[userID]
	if !ok {
		return Pair{}, ErrNoRecords
	}
	return pair, nil
}

func (m *Memory) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pairs, userID)
	return nil
}

func (m *Memory) Close() error { return nil }
