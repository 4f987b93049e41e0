// Package domain defines the core domain models for the transaction recorder.
package domain

import "strings"

// SessionState represents where a conversation session is in the dialog.
type SessionState string

const (
	StateAwaitingDebitType  SessionState = "AWAITING_DEBIT_TYPE"
	StateAwaitingCreditType SessionState = "AWAITING_CREDIT_TYPE"
	StateAwaitingStatus     SessionState = "AWAITING_STATUS"
	StatePosted             SessionState = "POSTED"
)

// TransactionType represents the kind of one ledger leg.
type TransactionType string

const (
	TypeIncome   TransactionType = "INCOME"
	TypeOutcome  TransactionType = "OUTCOME"
	TypeDeposit  TransactionType = "DEPOSIT"
	TypeWithdraw TransactionType = "WITHDRAW"
)

// TransactionTypes lists every valid type in keyboard order.
var TransactionTypes = []TransactionType{TypeIncome, TypeOutcome, TypeDeposit, TypeWithdraw}

// ParseTransactionType resolves a raw token to a TransactionType.
func ParseTransactionType(raw string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range TransactionTypes {
		if t == known {
			return known, true
		}
	}
	return "", false
}

// TransactionStatus represents the settlement status of a posted pair.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "Pending"
	StatusArrived TransactionStatus = "Arrived"
	StatusBlocked TransactionStatus = "Blocked"
)

// TransactionStatuses lists every valid status in keyboard order.
var TransactionStatuses = []TransactionStatus{StatusPending, StatusArrived, StatusBlocked}

// ParseTransactionStatus resolves a raw token to a TransactionStatus.
func ParseTransactionStatus(raw string) (TransactionStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, known := range TransactionStatuses {
		if strings.EqualFold(raw, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Currency is a canonical currency code.
type Currency string

const (
	CurrencyBGN Currency = "BGN"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// Currencies lists every currency the recorder can post.
var Currencies = []Currency{CurrencyBGN, CurrencyEUR, CurrencyUSD, CurrencyGBP}
