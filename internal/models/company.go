package models

// CompanyStatus represents the lifecycle status of a company
type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
)

// Company represents a managed company, keyed by its tax identifier.
// TeamID is nullable: a company stays unassigned until a team claims it,
// and once claimed only that team may mutate it.
type Company struct {
	TaxID     string        `gorm:"primaryKey;size:20" json:"tax_id"`
	Name      string        `gorm:"size:255" json:"name"`
	TeamID    *uint         `gorm:"index" json:"team_id"`
	OwnerID   *int64        `json:"owner_id"`
	OwnerName string        `gorm:"size:100" json:"owner_name"`
	Status    CompanyStatus `gorm:"size:20;default:active" json:"status"`
}

// AddCompanyRequest represents the data needed to add a company to a team
type AddCompanyRequest struct {
	TaxID string `json:"tax_id" binding:"required"`
	Name  string `json:"name"`
}

// AssignCompanyRequest represents a bot-owner reassignment of a company to a team
type AssignCompanyRequest struct {
	TaxID  string `json:"tax_id" binding:"required"`
	ChatID int64  `json:"chat_id" binding:"required"`
}

// SetOwnerRequest represents the data needed to assign a responsible owner
type SetOwnerRequest struct {
	OwnerID   int64  `json:"owner_id" binding:"required"`
	OwnerName string `json:"owner_name"`
}

// RenameCompanyRequest represents a company display-name change
type RenameCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}
