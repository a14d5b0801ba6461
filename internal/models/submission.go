package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission records that a company filed a given form for a given reporting
// period. Rows are append-only: a matching submission permanently excludes
// the requirement from reminder candidacy for that period.
type Submission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CompanyTaxID string         `gorm:"size:20;not null;index:idx_sub_company_form_period" json:"company_tax_id"`
	FormCode     string         `gorm:"size:30;index:idx_sub_company_form_period" json:"form_code"`
	Period       string         `gorm:"size:20;index:idx_sub_company_form_period" json:"period"`
	CompanyName  string         `gorm:"size:255" json:"company_name"`
	FormRaw      string         `gorm:"type:text" json:"form_raw"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before recording a new submission
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}
