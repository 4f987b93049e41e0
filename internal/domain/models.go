package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Intent is one transaction captured from a single chat message.
// It is immutable once parsed.
type Intent struct {
	Amount         decimal.Decimal
	Currency       Currency
	SenderPhrase   string
	ReceiverPhrase string
	OccurredOn     time.Time
}

// Session is the per-user in-progress conversational state for one
// transaction being assembled. Only one live session exists per user;
// a new intent from the same user replaces it.
type Session struct {
	ID     string
	UserID string
	ChatID int64
	State  SessionState

	Intent Intent

	SenderRef     string
	SenderLabel   string
	ReceiverRef   string
	ReceiverLabel string

	// ReceiverCurrency is the receiver account's configured currency.
	// Empty means the credit leg stays in the intent currency.
	ReceiverCurrency Currency

	DebitType  TransactionType
	CreditType TransactionType
	Status     TransactionStatus

	// CreditAmount is the credit leg amount after any conversion.
	CreditAmount   decimal.Decimal
	CreditCurrency Currency

	EnteredBy string
	CreatedAt time.Time
}

// LedgerEntry is one outbound leg of a posted pair. The debit leg carries
// a negative amount, the credit leg a positive one.
type LedgerEntry struct {
	Date       time.Time
	AccountRef string
	Amount     decimal.Decimal
	Currency   Currency
	Type       TransactionType
	Status     TransactionStatus
	Note       string
	EnteredBy  string
}

// PostResult is the per-leg outcome of a ledger store create call.
type PostResult struct {
	RecordID string
	Err      error
}

// OK reports whether the store assigned an identifier to the leg.
func (r PostResult) OK() bool {
	return r.Err == nil && r.RecordID != ""
}

func (r PostResult) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.RecordID == "" {
		return "no record id assigned"
	}
	return "created " + r.RecordID
}
