package models

// Form is a catalog entry for a known filing form code
type Form struct {
	Code        string `gorm:"primaryKey;size:30" json:"code"`
	DisplayName string `gorm:"size:255" json:"display_name"`
}
