package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taxmind/internal/models"
)

// RequirementsForCompanies returns the filing requirements of the given
// companies
func (s *Store) RequirementsForCompanies(ctx context.Context, taxIDs []string) ([]models.Requirement, error) {
	if len(taxIDs) == 0 {
		return nil, nil
	}
	var reqs []models.Requirement
	if err := s.db.WithContext(ctx).Where("company_tax_id IN ?", taxIDs).Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}
	return reqs, nil
}

// RequirementsByTeam returns every requirement of a team's companies,
// ordered for listing
func (s *Store) RequirementsByTeam(ctx context.Context, teamID uint) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := s.db.WithContext(ctx).
		Joins("JOIN company ON company.tax_id = requirement.company_tax_id").
		Where("company.team_id = ?", teamID).
		Order("requirement.company_tax_id, requirement.form_code").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements for team %d: %w", teamID, err)
	}
	return reqs, nil
}

// AddRequirement inserts a filing requirement. Duplicate triples are
// rejected with ErrDuplicateRequirement, never overwritten.
func (s *Store) AddRequirement(ctx context.Context, req models.Requirement) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Requirement{}).
		Where("company_tax_id = ? AND form_code = ? AND frequency = ?",
			req.CompanyTaxID, req.FormCode, req.Frequency).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check requirement: %w", err)
	}
	if count > 0 {
		return ErrDuplicateRequirement
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRequirement
		}
		return fmt.Errorf("failed to add requirement: %w", err)
	}
	return nil
}

// RemoveRequirement deletes requirements for a company and form code. An
// empty frequency removes the form across all frequencies.
func (s *Store) RemoveRequirement(ctx context.Context, taxID, formCode string, freq models.Frequency) error {
	q := s.db.WithContext(ctx).Where("company_tax_id = ? AND form_code = ?", taxID, formCode)
	if freq != "" {
		q = q.Where("frequency = ?", freq)
	}
	if err := q.Delete(&models.Requirement{}).Error; err != nil {
		return fmt.Errorf("failed to remove requirement: %w", err)
	}
	return nil
}

// KnownFormCodes returns the catalog of recognized form codes
func (s *Store) KnownFormCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := s.db.WithContext(ctx).Model(&models.Form{}).Pluck("code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to load form codes: %w", err)
	}
	return codes, nil
}

// EnsureForms seeds catalog entries, keeping existing display names
func (s *Store) EnsureForms(ctx context.Context, forms []models.Form) error {
	if len(forms) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&forms).Error
	if err != nil {
		return fmt.Errorf("failed to seed forms: %w", err)
	}
	return nil
}
