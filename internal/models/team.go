package models

// Team represents a registered chat group that manages companies
type Team struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	ChatID int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Name   string `gorm:"size:255" json:"name"`
}

// RegisterTeamRequest represents the data needed to register a chat group as a team
type RegisterTeamRequest struct {
	ChatID int64  `json:"chat_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}
