package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taxmind/internal/models"
)

// TeamsWithChat returns every team that has a chat group attached. These are
// the only teams the reminder sweeps consider.
func (s *Store) TeamsWithChat(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Where("chat_id IS NOT NULL").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return teams, nil
}

// TeamByChatID looks up the team registered for a chat group
func (s *Store) TeamByChatID(ctx context.Context, chatID int64) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team for chat %d: %w", chatID, err)
	}
	return &team, nil
}

// UpsertTeam registers a chat group as a team, updating the display name if
// the group is already registered.
func (s *Store) UpsertTeam(ctx context.Context, chatID int64, name string) (*models.Team, error) {
	team := models.Team{ChatID: chatID, Name: name}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&team).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert team: %w", err)
	}
	if team.ID == 0 {
		// conflict path: fetch the existing row
		return s.TeamByChatID(ctx, chatID)
	}
	return &team, nil
}

// DeleteTeamByChatID removes a team registration
func (s *Store) DeleteTeamByChatID(ctx context.Context, chatID int64) error {
	if err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&models.Team{}).Error; err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// ListTeams returns all registered teams
func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
