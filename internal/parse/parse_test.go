package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		amount   string
		token    string
		sender   string
		receiver string
	}{
		{"english markers", "50 lv from Ivan to Maria", "50", "lv", "Ivan", "Maria"},
		{"bulgarian markers", "50 лв от Иван към Мария", "50", "лв", "Иван", "Мария"},
		{"transliterated markers", "12.50 eur ot Revolut kum DSK Maria", "12.5", "eur", "Revolut", "DSK Maria"},
		{"comma fraction", "19,99 usd from Cash to Broker", "19.99", "usd", "Cash", "Broker"},
		{"no space before currency", "100lv from Ivan to Maria", "100", "lv", "Ivan", "Maria"},
		{"surrounding chat noise", "btw send 20 eur from Ivan to Maria please", "20", "eur", "Ivan", "Maria please"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Parse(tc.message)
			require.NoError(t, err)
			assert.Equal(t, tc.amount, raw.Amount.String())
			assert.Equal(t, tc.token, raw.CurrencyToken)
			assert.Equal(t, tc.sender, raw.SenderPhrase)
			assert.Equal(t, tc.receiver, raw.ReceiverPhrase)
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	messages := []string{
		"",
		"hello there",
		"lunch tomorrow?",
		"50 lv from Ivan",       // missing receiver marker
		"fifty lv from a to b",  // no numeric amount
		"-50 lv from Ivan to Maria",
		"0 lv from Ivan to Maria",
		"0,00 eur from Ivan to Maria",
	}
	for _, msg := range messages {
		_, err := Parse(msg)
		assert.ErrorIs(t, err, ErrNoMatch, "message %q", msg)
	}
}
