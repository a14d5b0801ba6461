package store

import (
	"context"
	"fmt"

	"taxmind/internal/models"
)

// HasSubmission reports whether a filed submission exists for the company,
// form and reporting period. A match permanently excludes the matching
// requirement from reminder candidacy for that period.
func (s *Store) HasSubmission(ctx context.Context, taxID, formCode, period string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Submission{}).
		Where("company_tax_id = ? AND form_code = ? AND period = ?", taxID, formCode, period).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check submission: %w", err)
	}
	return count > 0, nil
}

// RecordSubmission appends a filed-submission row
func (s *Store) RecordSubmission(ctx context.Context, sub models.Submission) error {
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}
