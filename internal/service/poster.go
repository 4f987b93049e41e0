package service

import (
	"context"
	"fmt"

	"github.com/ivayloh/ledgerbot/internal/domain"
	"github.com/ivayloh/ledgerbot/internal/journal"
)

// buildLegs derives the outbound pair from a finished session. The debit
// leg is always negative and the credit leg always positive, regardless of
// how the amount was typed.
func buildLegs(sess domain.Session) (debit, credit domain.LedgerEntry) {
	debit = domain.LedgerEntry{
		Date:       sess.Intent.OccurredOn,
		AccountRef: sess.SenderRef,
		Amount:     sess.Intent.Amount.Abs().Neg(),
		Currency:   sess.Intent.Currency,
		Type:       sess.DebitType,
		Status:     sess.Status,
		EnteredBy:  sess.EnteredBy,
	}
	credit = domain.LedgerEntry{
		Date:       sess.Intent.OccurredOn,
		AccountRef: sess.ReceiverRef,
		Amount:     sess.CreditAmount.Abs(),
		Currency:   sess.CreditCurrency,
		Type:       sess.CreditType,
		Status:     sess.Status,
		EnteredBy:  sess.EnteredBy,
	}
	return debit, credit
}

func (s *Service) recordFields(leg domain.LedgerEntry) (map[string]any, error) {
	col, err := s.fields.Column(leg.Type, leg.Currency)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		fieldDate:      leg.Date.Format("2006-01-02"),
		fieldAccount:   []string{leg.AccountRef},
		col:            leg.Amount.InexactFloat64(),
		fieldStatus:    string(leg.Status),
		fieldNotes:     leg.Note,
		fieldEnteredBy: leg.EnteredBy,
	}, nil
}

// postSession writes both legs of a finished session. When only one leg
// lands, the landed one is deleted again so the ledger never holds half a
// pair, and the user sees the verbatim outcome of each call.
func (s *Service) postSession(ctx context.Context, sess domain.Session) error {
	debit, credit := buildLegs(sess)

	debitRes := s.postLeg(ctx, debit)
	creditRes := s.postLeg(ctx, credit)

	if debitRes.OK() && creditRes.OK() {
		if err := s.journal.SetLast(ctx, sess.UserID, journal.Pair{
			DebitID:  debitRes.RecordID,
			CreditID: creditRes.RecordID,
		}); err != nil {
			s.logger.Warn("journal update failed", "user", sess.UserID, "error", err)
		}
		s.logger.Info("pair posted",
			"user", sess.UserID, "debit", debitRes.RecordID, "credit", creditRes.RecordID)
		return s.chat.SendMessage(ctx, sess.ChatID, postedText(sess, debit, credit), nil)
	}

	compensation := s.compensate(ctx, debitRes, creditRes)
	s.logger.Error("pair post failed",
		"user", sess.UserID, "debit", debitRes.String(), "credit", creditRes.String())
	return s.chat.SendMessage(ctx, sess.ChatID, postFailedText(debitRes, creditRes, compensation), nil)
}

func (s *Service) postLeg(ctx context.Context, leg domain.LedgerEntry) domain.PostResult {
	fields, err := s.recordFields(leg)
	if err != nil {
		return domain.PostResult{Err: err}
	}
	id, err := s.store.CreateRecord(ctx, fields)
	return domain.PostResult{RecordID: id, Err: err}
}

// compensate removes whichever leg landed when its sibling did not, and
// describes the cleanup for the failure reply.
func (s *Service) compensate(ctx context.Context, debitRes, creditRes domain.PostResult) string {
	var id string
	switch {
	case debitRes.OK() && !creditRes.OK():
		id = debitRes.RecordID
	case creditRes.OK() && !debitRes.OK():
		id = creditRes.RecordID
	default:
		return ""
	}
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		s.logger.Error("compensating delete failed", "record", id, "error", err)
		return fmt.Sprintf("Record %s was saved alone and could not be removed, please delete it by hand.", id)
	}
	return fmt.Sprintf("Record %s was saved alone and has been removed again.", id)
}
