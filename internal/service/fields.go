package service

import (
	"fmt"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

// Shared column names in the transactions table.
const (
	fieldDate      = "DATE"
	fieldAccount   = "ACCOUNT"
	fieldStatus    = "STATUS"
	fieldNotes     = "NOTES"
	fieldEnteredBy = "ENTERED BY"
)

type fieldKey struct {
	txType   domain.TransactionType
	currency domain.Currency
}

// FieldMap maps (transaction type, currency) to the amount column carrying
// that combination. It is built from the full cross product at construction
// so an unknown combination is a lookup error, never a string-formatting
// probe against the store schema.
type FieldMap struct {
	columns map[fieldKey]string
}

// NewFieldMap builds the typed column map.
func NewFieldMap() *FieldMap {
	columns := make(map[fieldKey]string, len(domain.TransactionTypes)*len(domain.Currencies))
	for _, t := range domain.TransactionTypes {
		for _, c := range domain.Currencies {
			columns[fieldKey{txType: t, currency: c}] = fmt.Sprintf("%s %s", t, c)
		}
	}
	return &FieldMap{columns: columns}
}

// Column returns the amount column for one leg.
func (m *FieldMap) Column(txType domain.TransactionType, currency domain.Currency) (string, error) {
	col, ok := m.columns[fieldKey{txType: txType, currency: currency}]
	if !ok {
		return "", fmt.Errorf("no ledger column for type %s in %s", txType, currency)
	}
	return col, nil
}
