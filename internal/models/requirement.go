package models

// Frequency represents how often a filing requirement recurs
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// Valid reports whether f is a recognized recurrence frequency
func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Requirement represents a recurring filing obligation for one company.
// The (company, form, frequency) triple is unique; duplicates are rejected
// rather than overwritten.
type Requirement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyTaxID string    `gorm:"size:20;not null;uniqueIndex:idx_req_company_form_freq" json:"company_tax_id"`
	FormCode     string    `gorm:"size:30;not null;uniqueIndex:idx_req_company_form_freq" json:"form_code"`
	Frequency    Frequency `gorm:"size:20;not null;uniqueIndex:idx_req_company_form_freq" json:"frequency"`
}

// AddRequirementRequest represents the data needed to add a filing requirement
type AddRequirementRequest struct {
	TaxID     string    `json:"tax_id" binding:"required"`
	FormCode  string    `json:"form_code" binding:"required"`
	Frequency Frequency `json:"frequency" binding:"required,oneof=monthly quarterly yearly"`
}

// QuickAddRequest seeds the standard requirement bundle for a company
type QuickAddRequest struct {
	TaxID     string    `json:"tax_id" binding:"required"`
	Frequency Frequency `json:"frequency" binding:"required,oneof=monthly quarterly yearly"`
}
