package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taxmind/internal/calendar"
	"taxmind/internal/models"
)

// InsertReminderSent appends a sent-reminder audit row. SentAt is stamped
// in UTC at insert time when the caller leaves it empty.
func (s *Store) InsertReminderSent(ctx context.Context, rec models.ReminderSent) error {
	if rec.SentAt == "" {
		rec.SentAt = time.Now().UTC().Format(models.SentAtLayout)
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert reminder record: %w", err)
	}
	return nil
}

// LastHourlySentAt returns the raw sent_at of the most recent hourly
// reminder for the requirement/due-date pair. found is false when no hourly
// reminder has been recorded yet. The timestamp is returned unparsed so the
// caller owns the fail-open policy for malformed rows.
func (s *Store) LastHourlySentAt(ctx context.Context, requirementID uint, remindForDate string) (string, bool, error) {
	var rec models.ReminderSent
	err := s.db.WithContext(ctx).
		Where("requirement_id = ? AND remind_for_date = ? AND mode = ?",
			requirementID, remindForDate, models.ModeHourly).
		Order("sent_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load last hourly reminder: %w", err)
	}
	return rec.SentAt, true, nil
}

// Holidays loads the holiday calendar. Malformed rows are skipped; a missing
// table degrades to an empty set rather than failing the sweep.
func (s *Store) Holidays(ctx context.Context) (calendar.HolidaySet, error) {
	var rows []models.Holiday
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return calendar.HolidaySet{}, nil
	}
	set := make(calendar.HolidaySet, len(rows))
	for _, row := range rows {
		if _, err := time.Parse(calendar.DateLayout, row.Date); err != nil {
			continue
		}
		set[row.Date] = struct{}{}
	}
	return set, nil
}
