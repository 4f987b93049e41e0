// Package service drives the conversational transaction recorder: it turns
// parsed intents into per-user dialog sessions and posts the resulting
// debit/credit pairs to the ledger store.
package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ivayloh/ledgerbot/internal/adapter/telegram"
	"github.com/ivayloh/ledgerbot/internal/directory"
	"github.com/ivayloh/ledgerbot/internal/domain"
	"github.com/ivayloh/ledgerbot/internal/journal"
	"github.com/ivayloh/ledgerbot/internal/match"
)

// Chat sends replies and keyboard prompts back to the user.
type Chat interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Store is the record CRUD surface of the ledger store.
type Store interface {
	CreateRecord(ctx context.Context, fields map[string]any) (string, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]any) error
	DeleteRecord(ctx context.Context, id string) error
}

// RateSource returns a conversion rate between two currencies.
type RateSource interface {
	GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error)
}

// Service wires the pipeline together.
type Service struct {
	chat     Chat
	store    Store
	dir      *directory.Directory
	rates    RateSource
	matcher  *match.Matcher
	fields   *FieldMap
	journal  journal.Journal
	logger   *slog.Logger
	sessions *sessionStore
}

// New creates the recorder service.
func New(chat Chat, store Store, dir *directory.Directory, rates RateSource, matcher *match.Matcher, fields *FieldMap, jnl journal.Journal, logger *slog.Logger) *Service {
	return &Service{
		chat:     chat,
		store:    store,
		dir:      dir,
		rates:    rates,
		matcher:  matcher,
		fields:   fields,
		journal:  jnl,
		logger:   logger,
		sessions: newSessionStore(),
	}
}
