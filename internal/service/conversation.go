package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivayloh/ledgerbot/internal/currency"
	"github.com/ivayloh/ledgerbot/internal/directory"
	"github.com/ivayloh/ledgerbot/internal/domain"
	"github.com/ivayloh/ledgerbot/internal/parse"
)

// IncomingMessage is one text message from the chat transport.
type IncomingMessage struct {
	UserID    string
	ChatID    int64
	EnteredBy string
	Text      string
	SentAt    time.Time
}

// IncomingCallback is one button click from the chat transport.
type IncomingCallback struct {
	UserID     string
	ChatID     int64
	CallbackID string
	Data       string
}

// HandleMessage processes one incoming message: commands first, then a
// pending note capture, then the intent parser. Messages that match
// nothing are unrelated chat traffic and are ignored silently.
func (s *Service) HandleMessage(ctx context.Context, msg IncomingMessage) error {
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/notes"):
		return s.startNote(ctx, msg.UserID, msg.ChatID)
	case strings.HasPrefix(text, "/delete"):
		return s.deleteLast(ctx, msg.UserID, msg.ChatID)
	}

	if s.sessions.takeAwaitingNote(msg.UserID) {
		return s.applyNote(ctx, msg.UserID, msg.ChatID, text)
	}

	raw, err := parse.Parse(text)
	if err != nil {
		// Not a transaction; the parser shares the stream with normal chat.
		return nil
	}

	code, err := currency.Resolve(raw.CurrencyToken)
	if err != nil {
		return s.chat.SendMessage(ctx, msg.ChatID, msgUnrecognizedCurrency, nil)
	}

	entries, err := s.dir.Get(ctx, false)
	if err != nil {
		s.logger.Error("account directory unavailable", "error", err)
		return s.chat.SendMessage(ctx, msg.ChatID, msgDirectoryUnavailable, nil)
	}

	keys := directory.Keys(entries)
	senderKey, senderOK := s.matcher.Match(raw.SenderPhrase, keys)
	receiverKey, receiverOK := s.matcher.Match(raw.ReceiverPhrase, keys)
	if !senderOK || !receiverOK {
		// The account may have been added since the last refresh; retry
		// once against a fresh directory before giving up.
		if entries, err = s.dir.Get(ctx, true); err == nil {
			keys = directory.Keys(entries)
			senderKey, senderOK = s.matcher.Match(raw.SenderPhrase, keys)
			receiverKey, receiverOK = s.matcher.Match(raw.ReceiverPhrase, keys)
		}
	}
	if !senderOK || !receiverOK {
		return s.chat.SendMessage(ctx, msg.ChatID,
			accountsNotFoundText(senderOK, receiverOK, raw.SenderPhrase, raw.ReceiverPhrase), nil)
	}
	sender := entries[senderKey]
	receiver := entries[receiverKey]

	sess := &domain.Session{
		ID:     uuid.New().String(),
		UserID: msg.UserID,
		ChatID: msg.ChatID,
		State:  domain.StateAwaitingDebitType,
		Intent: domain.Intent{
			Amount:         raw.Amount,
			Currency:       code,
			SenderPhrase:   raw.SenderPhrase,
			ReceiverPhrase: raw.ReceiverPhrase,
			OccurredOn:     msg.SentAt,
		},
		SenderRef:        sender.Ref,
		SenderLabel:      sender.Label,
		ReceiverRef:      receiver.Ref,
		ReceiverLabel:    receiver.Label,
		ReceiverCurrency: receiver.Currency,
		EnteredBy:        msg.EnteredBy,
		CreatedAt:        time.Now(),
	}
	s.sessions.put(sess)

	s.logger.Info("session started",
		"user", msg.UserID, "amount", raw.Amount.String(), "currency", code,
		"sender", sender.Label, "receiver", receiver.Label)

	return s.chat.SendMessage(ctx, msg.ChatID, confirmIntentText(*sess), typeKeyboard(sess.ID))
}

// HandleCallback processes one button click. The payload is the opaque
// "action|sessionID" token the keyboards carry.
func (s *Service) HandleCallback(ctx context.Context, cb IncomingCallback) error {
	parts := strings.SplitN(cb.Data, "|", 2)
	if len(parts) != 2 {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, "")
	}
	action, sessionID := parts[0], parts[1]

	sess, ok := s.sessions.get(cb.UserID, sessionID)
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgNoActiveOperation)
	}

	switch sess.State {
	case domain.StateAwaitingDebitType:
		return s.chooseDebitType(ctx, cb, sessionID, action)
	case domain.StateAwaitingCreditType:
		return s.chooseCreditType(ctx, cb, sess, action)
	case domain.StateAwaitingStatus:
		return s.chooseStatus(ctx, cb, sessionID, action)
	default:
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgNoActiveOperation)
	}
}

func (s *Service) chooseDebitType(ctx context.Context, cb IncomingCallback, sessionID, action string) error {
	t, ok := domain.ParseTransactionType(action)
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgUseButtons)
	}

	sess, ok := s.sessions.transition(cb.UserID, sessionID, domain.StateAwaitingDebitType, func(sess *domain.Session) {
		sess.DebitType = t
		sess.State = domain.StateAwaitingCreditType
	})
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgNoActiveOperation)
	}

	if err := s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, ""); err != nil {
		return err
	}
	return s.chat.SendMessage(ctx, cb.ChatID, creditTypeText(sess), typeKeyboard(sess.ID))
}

// chooseCreditType completes the debit leg and, when the receiver account
// is configured in a different currency, converts the credit amount. A
// missing rate aborts the transition only; the session stays in place so
// the same choice can be retried.
func (s *Service) chooseCreditType(ctx context.Context, cb IncomingCallback, snap domain.Session, action string) error {
	t, ok := domain.ParseTransactionType(action)
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgUseButtons)
	}

	creditCurrency := snap.ReceiverCurrency
	if creditCurrency == "" {
		creditCurrency = snap.Intent.Currency
	}
	creditAmount := snap.Intent.Amount
	if creditCurrency != snap.Intent.Currency {
		rate, err := s.rates.GetRate(ctx, snap.Intent.Currency, creditCurrency)
		if err != nil {
			s.logger.Warn("exchange rate lookup failed",
				"from", snap.Intent.Currency, "to", creditCurrency, "error", err)
			if err := s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, ""); err != nil {
				return err
			}
			return s.chat.SendMessage(ctx, cb.ChatID,
				fmt.Sprintf("⚠️ No %s→%s exchange rate available right now. Pick the type again to retry.",
					snap.Intent.Currency, creditCurrency), nil)
		}
		creditAmount = creditAmount.Mul(rate).Round(2)
	}

	sess, ok := s.sessions.transition(cb.UserID, snap.ID, domain.StateAwaitingCreditType, func(sess *domain.Session) {
		sess.CreditType = t
		sess.CreditAmount = creditAmount
		sess.CreditCurrency = creditCurrency
		sess.State = domain.StateAwaitingStatus
	})
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgNoActiveOperation)
	}

	if err := s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, ""); err != nil {
		return err
	}
	return s.chat.SendMessage(ctx, cb.ChatID, statusText(sess), statusKeyboard(sess.ID))
}

func (s *Service) chooseStatus(ctx context.Context, cb IncomingCallback, sessionID, action string) error {
	st, ok := domain.ParseTransactionStatus(action)
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgUseButtons)
	}

	sess, ok := s.sessions.transition(cb.UserID, sessionID, domain.StateAwaitingStatus, func(sess *domain.Session) {
		sess.Status = st
	})
	if !ok {
		return s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, msgNoActiveOperation)
	}
	// Posting is attempted exactly once; whatever the outcome, the
	// session is finished.
	s.sessions.delete(cb.UserID)

	if err := s.chat.AnswerCallbackQuery(ctx, cb.CallbackID, ""); err != nil {
		return err
	}
	return s.postSession(ctx, sess)
}
