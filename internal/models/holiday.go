package models

// Holiday is a non-working calendar date, stored as YYYY-MM-DD
type Holiday struct {
	Date string `gorm:"primaryKey;size:10" json:"date"`
	Name string `gorm:"size:100" json:"name"`
}
