// Package currency resolves raw currency tokens to canonical currency codes.
package currency

import (
	"errors"
	"strings"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

// ErrNotRecognized is returned for tokens absent from the synonym table.
// Callers must treat it as a hard stop, never substitute a default.
var ErrNotRecognized = errors.New("currency not recognized")

// synonyms maps each canonical code to its accepted spellings and
// abbreviations. Lookup is exact match against this table; misresolving
// a currency silently corrupts amounts, so nothing is guessed.
var synonyms = map[domain.Currency][]string{
	domain.CurrencyGBP: {"£", "gbp", "gb", "паунд", "паунда", "paund", "paunda"},
	domain.CurrencyBGN: {"bgn", "лв", "лв.", "лева", "lv", "lw"},
	domain.CurrencyEUR: {"€", "eur", "euro", "евро", "evro", "ewro"},
	domain.CurrencyUSD: {"$", "usd", "долар", "долара", "dolar", "dolara"},
}

var byToken = buildIndex()

func buildIndex() map[string]domain.Currency {
	index := make(map[string]domain.Currency)
	for code, tokens := range synonyms {
		for _, token := range tokens {
			index[token] = code
		}
	}
	return index
}

// Resolve maps a raw currency token to its canonical code.
func Resolve(token string) (domain.Currency, error) {
	code, ok := byToken[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return "", ErrNotRecognized
	}
	return code, nil
}

// Synonyms returns the accepted spellings for a canonical code.
func Synonyms(code domain.Currency) []string {
	return synonyms[code]
}
