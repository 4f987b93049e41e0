// Package parse extracts transaction intents from free-form chat messages.
package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoMatch means the message does not look like a transaction. Callers
// must ignore it silently; the parser shares a stream with unrelated chat.
var ErrNoMatch = errors.New("message is not a transaction")

// intentPattern captures, in order: a decimal amount (comma or dot as the
// fractional separator), a currency token, a sender phrase after a "from"
// marker and a receiver phrase after a "to" marker. Markers accept the
// Bulgarian, transliterated and English variants.
var intentPattern = regexp.MustCompile(
	`(?i)(\d+(?:[.,]\d{1,2})?)\s*([\p{L}£$€.]+)\s+(?:от|ot|from)\s+(.+?)\s+(?:към|kum|kym|to)\s+(.+)`)

// Raw is the unresolved output of one matched message. The currency token
// still needs resolution against the synonym table.
type Raw struct {
	Amount         decimal.Decimal
	CurrencyToken  string
	SenderPhrase   string
	ReceiverPhrase string
}

// Parse extracts a raw intent from one message.
func Parse(message string) (Raw, error) {
	idx := intentPattern.FindStringSubmatchIndex(message)
	if idx == nil {
		return Raw{}, ErrNoMatch
	}
	// A leading minus would otherwise be dropped and the amount accepted
	// with a flipped sign.
	if start := idx[0]; start > 0 && message[start-1] == '-' {
		return Raw{}, ErrNoMatch
	}

	group := func(n int) string {
		return strings.TrimSpace(message[idx[2*n]:idx[2*n+1]])
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(group(1), ",", "."))
	if err != nil || !amount.IsPositive() {
		return Raw{}, ErrNoMatch
	}

	return Raw{
		Amount:         amount,
		CurrencyToken:  group(2),
		SenderPhrase:   group(3),
		ReceiverPhrase: group(4),
	}, nil
}
