// Package store provides read/write access to teams, companies, filing
// requirements, submissions and the sent-reminder log.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrTeamNotFound means the chat group has not been registered as a team
	ErrTeamNotFound = errors.New("team not registered")

	// ErrCompanyNotFound means no company exists for the given tax id
	ErrCompanyNotFound = errors.New("company not found")

	// ErrForeignTeam means the company is claimed by a different team
	ErrForeignTeam = errors.New("company belongs to another team")

	// ErrDuplicateRequirement means the (company, form, frequency) triple
	// already exists
	ErrDuplicateRequirement = errors.New("requirement already exists")
)

// Store wraps the database handle with the typed operations the service
// layer depends on
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
