package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivayloh/ledgerbot/internal/journal"
)

// startNote arms the note capture for the user's last posted pair. The
// note text itself arrives as the next plain message.
func (s *Service) startNote(ctx context.Context, userID string, chatID int64) error {
	if _, err := s.journal.Last(ctx, userID); err != nil {
		if errors.Is(err, journal.ErrNoRecords) {
			return s.chat.SendMessage(ctx, chatID, msgNoRecentRecords, nil)
		}
		return fmt.Errorf("failed to read journal: %w", err)
	}
	s.sessions.setAwaitingNote(userID)
	return s.chat.SendMessage(ctx, chatID, msgWriteNote, nil)
}

// applyNote writes the captured text onto both legs of the last pair.
func (s *Service) applyNote(ctx context.Context, userID string, chatID int64, note string) error {
	pair, err := s.journal.Last(ctx, userID)
	if err != nil {
		if errors.Is(err, journal.ErrNoRecords) {
			return s.chat.SendMessage(ctx, chatID, msgNoRecentRecords, nil)
		}
		return fmt.Errorf("failed to read journal: %w", err)
	}
	for _, id := range pair.IDs() {
		if err := s.store.UpdateRecord(ctx, id, map[string]any{fieldNotes: note}); err != nil {
			s.logger.Error("note update failed", "record", id, "error", err)
			return s.chat.SendMessage(ctx, chatID,
				fmt.Sprintf("⚠️ Could not attach the note to record %s: %s", id, err), nil)
		}
	}
	return s.chat.SendMessage(ctx, chatID, "✅ Note attached to both records.", nil)
}

// deleteLast removes both legs of the user's last posted pair.
func (s *Service) deleteLast(ctx context.Context, userID string, chatID int64) error {
	pair, err := s.journal.Last(ctx, userID)
	if err != nil {
		if errors.Is(err, journal.ErrNoRecords) {
			return s.chat.SendMessage(ctx, chatID, msgNoRecentRecords, nil)
		}
		return fmt.Errorf("failed to read journal: %w", err)
	}
	for _, id := range pair.IDs() {
		if err := s.store.DeleteRecord(ctx, id); err != nil {
			s.logger.Error("record delete failed", "record", id, "error", err)
			return s.chat.SendMessage(ctx, chatID,
				fmt.Sprintf("⚠️ Could not delete record %s: %s", id, err), nil)
		}
	}
	if err := s.journal.Clear(ctx, userID); err != nil {
		s.logger.Warn("journal clear failed", "user", userID, "error", err)
	}
	return s.chat.SendMessage(ctx, chatID, "✅ Both records of the last transaction were deleted.", nil)
}
