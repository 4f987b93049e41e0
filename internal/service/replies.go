package service

import (
	"fmt"
	"strings"

	"github.com/ivayloh/ledgerbot/internal/adapter/telegram"
	"github.com/ivayloh/ledgerbot/internal/domain"
)

const (
	msgUnrecognizedCurrency = "❌ Unrecognized currency."
	msgDirectoryUnavailable = "⚠️ Could not reach the account directory, please try again."
	msgNoActiveOperation    = "❌ No active operation."
	msgUseButtons           = "Please pick one of the buttons."
	msgNoRecentRecords      = "⚠️ There is no recent transaction to work with."
	msgWriteNote            = "✍️ Please write the note:"
)

func payload(action, sessionID string) string {
	return strings.ToLower(action) + "|" + sessionID
}

// typeKeyboard is the 2x2 transaction-type choice grid.
func typeKeyboard(sessionID string) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, 2)
	for i := 0; i < len(domain.TransactionTypes); i += 2 {
		row := make([]telegram.InlineKeyboardButton, 0, 2)
		for _, t := range domain.TransactionTypes[i:min(i+2, len(domain.TransactionTypes))] {
			row = append(row, telegram.InlineKeyboardButton{
				Text:         string(t),
				CallbackData: payload(string(t), sessionID),
			})
		}
		rows = append(rows, row)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// statusKeyboard is the single-row status choice.
func statusKeyboard(sessionID string) *telegram.InlineKeyboardMarkup {
	row := make([]telegram.InlineKeyboardButton, 0, len(domain.TransactionStatuses))
	for _, st := range domain.TransactionStatuses {
		row = append(row, telegram.InlineKeyboardButton{
			Text:         strings.ToUpper(string(st)),
			CallbackData: payload(string(st), sessionID),
		})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{row}}
}

func confirmIntentText(sess domain.Session) string {
	return fmt.Sprintf("📌 Got it: %s %s from %s to %s.\nWhat kind of payment leaves %s?",
		sess.Intent.Amount.String(), sess.Intent.Currency,
		sess.SenderLabel, sess.ReceiverLabel, sess.SenderLabel)
}

func creditTypeText(sess domain.Session) string {
	return fmt.Sprintf("And what kind of payment arrives at %s?", sess.ReceiverLabel)
}

func statusText(sess domain.Session) string {
	if sess.CreditCurrency != sess.Intent.Currency {
		return fmt.Sprintf("💱 %s %s → %s %s.\nWhat is the status of the transfer?",
			sess.Intent.Amount.String(), sess.Intent.Currency,
			sess.CreditAmount.StringFixed(2), sess.CreditCurrency)
	}
	return "What is the status of the transfer?"
}

func accountsNotFoundText(senderOK, receiverOK bool, senderPhrase, receiverPhrase string) string {
	var missing []string
	if !senderOK {
		missing = append(missing, fmt.Sprintf("sender %q", senderPhrase))
	}
	if !receiverOK {
		missing = append(missing, fmt.Sprintf("receiver %q", receiverPhrase))
	}
	return fmt.Sprintf("⚠️ Could not find both accounts: no match for %s.", strings.Join(missing, " and "))
}

func postedText(sess domain.Session, debit, credit domain.LedgerEntry) string {
	return fmt.Sprintf("✅ Recorded both legs:\n❌ %s: %s %s\n✅ %s: +%s %s",
		sess.SenderLabel, debit.Amount.StringFixed(2), debit.Currency,
		sess.ReceiverLabel, credit.Amount.StringFixed(2), credit.Currency)
}

func postFailedText(debitRes, creditRes domain.PostResult, compensation string) string {
	text := fmt.Sprintf("⚠️ Failed to save the pair:\nOUT: %s\nIN: %s", debitRes, creditRes)
	if compensation != "" {
		text += "\n" + compensation
	}
	return text
}
