package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taxmind/internal/models"
)

// CompaniesByTeam returns the companies claimed by a team
func (s *Store) CompaniesByTeam(ctx context.Context, teamID uint) ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Order("tax_id").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to load companies for team %d: %w", teamID, err)
	}
	return companies, nil
}

// CompanyByTaxID looks up a company by its tax identifier
func (s *Store) CompanyByTaxID(ctx context.Context, taxID string) (*models.Company, error) {
	var company models.Company
	err := s.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", taxID, err)
	}
	return &company, nil
}

// UpsertCompany adds a company to a team, or refreshes the name and team of
// an existing row. Used by the admin add-company command where the admin's
// own team always wins the claim.
func (s *Store) UpsertCompany(ctx context.Context, taxID, name string, teamID uint) error {
	company := models.Company{TaxID: taxID, Name: name, TeamID: &teamID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tax_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "team_id"}),
		}).
		Create(&company).Error
	if err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", taxID, err)
	}
	return nil
}

// ClaimCompany attaches a company to a team under the write-once rule:
// an unassigned company is claimed, the owning team's claim is a no-op, and
// a company held by a different team yields ErrForeignTeam. A missing
// company is created with the given name and optional owner identity.
func (s *Store) ClaimCompany(ctx context.Context, taxID, name string, teamID uint, ownerID *int64, ownerName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company models.Company
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tax_id = ?", taxID).First(&company).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company = models.Company{
				TaxID:     taxID,
				Name:      name,
				TeamID:    &teamID,
				OwnerID:   ownerID,
				OwnerName: ownerName,
			}
			return tx.Create(&company).Error
		}
		if err != nil {
			return fmt.Errorf("failed to load company %s: %w", taxID, err)
		}

		if company.TeamID == nil {
			return tx.Model(&company).Updates(map[string]interface{}{"team_id": teamID}).Error
		}
		if *company.TeamID != teamID {
			return ErrForeignTeam
		}
		return nil
	})
}

// UpdateCompanyContact refreshes the display name and owner identity of a
// company already held by the team
func (s *Store) UpdateCompanyContact(ctx context.Context, taxID, name string, ownerID *int64, ownerName string) error {
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("tax_id = ?", taxID).
		Updates(map[string]interface{}{
			"name":       name,
			"owner_id":   ownerID,
			"owner_name": ownerName,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update company %s: %w", taxID, err)
	}
	return nil
}

// DeleteCompany removes a company from a team. The team filter keeps one
// team from deleting another team's company.
func (s *Store) DeleteCompany(ctx context.Context, taxID string, teamID uint) error {
	if err := s.db.WithContext(ctx).Where("tax_id = ? AND team_id = ?", taxID, teamID).Delete(&models.Company{}).Error; err != nil {
		return fmt.Errorf("failed to delete company %s: %w", taxID, err)
	}
	return nil
}

// SetOwner assigns the responsible owner identity for a company
func (s *Store) SetOwner(ctx context.Context, taxID string, ownerID int64, ownerName string) error {
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("tax_id = ?", taxID).
		Updates(map[string]interface{}{"owner_id": ownerID, "owner_name": ownerName}).Error
	if err != nil {
		return fmt.Errorf("failed to set owner for %s: %w", taxID, err)
	}
	return nil
}

// ClearOwner removes the responsible owner identity from a company
func (s *Store) ClearOwner(ctx context.Context, taxID string) error {
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("tax_id = ?", taxID).
		Updates(map[string]interface{}{"owner_id": nil, "owner_name": ""}).Error
	if err != nil {
		return fmt.Errorf("failed to clear owner for %s: %w", taxID, err)
	}
	return nil
}

// RenameCompany updates a company's display name
func (s *Store) RenameCompany(ctx context.Context, taxID, name string) error {
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("tax_id = ?", taxID).
		Update("name", name).Error
	if err != nil {
		return fmt.Errorf("failed to rename company %s: %w", taxID, err)
	}
	return nil
}
