package services

import (
	"errors"
	"fmt"

	"hackathon-api/database"
	"hackathon-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func loadRound(tx *gorm.DB, roundID string) (*models.Round, error) {
	var round models.Round
	if err := tx.Where("id = ?", roundID).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("round %s not found", roundID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &round, nil
}

// ActiveRoundAlias stands for the active round wherever a judge names a round
const ActiveRoundAlias = "active"

// resolveRound loads roundID, or the active round when roundID is ActiveRoundAlias
func resolveRound(tx *gorm.DB, roundID string) (*models.Round, error) {
	if roundID != ActiveRoundAlias {
		return loadRound(tx, roundID)
	}
	var rounds []models.Round
	if err := tx.Where("is_active = ?", true).Limit(1).Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(rounds) == 0 {
		return nil, notFound("no active round found")
	}
	return &rounds[0], nil
}

// loadRoundByNumber returns nil without error when no round carries number
func loadRoundByNumber(tx *gorm.DB, number int) (*models.Round, error) {
	var rounds []models.Round
	if err := tx.Where("round_number = ?", number).Limit(1).Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(rounds) == 0 {
		return nil, nil
	}
	return &rounds[0], nil
}

func loadTeam(tx *gorm.DB, teamID string) (*models.Team, error) {
	var team models.Team
	if err := tx.Where("id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("team %s not found", teamID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &team, nil
}

func hasRoundAccess(tx *gorm.DB, teamID, roundID string) (bool, error) {
	var count int64
	err := tx.Model(&models.TeamRound{}).
		Where("team_id = ? AND round_id = ?", teamID, roundID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// lockRoundAccess reads the access row of (team, round) FOR UPDATE, serialising
// writers of that pair. It fails with Forbidden when the team has no access.
func lockRoundAccess(tx *gorm.DB, teamID, roundID string) error {
	var grants []models.TeamRound
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("team_id = ? AND round_id = ?", teamID, roundID).
		Limit(1).
		Find(&grants).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if len(grants) == 0 {
		return forbidden("team does not have access to this round")
	}
	return nil
}

// grantRoundAccess adds roundID to the accessible rounds of every team. Existing grants are kept.
func grantRoundAccess(tx *gorm.DB, roundID string, teamIDs ...string) error {
	if len(teamIDs) == 0 {
		return nil
	}
	grants := make([]models.TeamRound, 0, len(teamIDs))
	for _, id := range teamIDs {
		grants = append(grants, models.TeamRound{TeamID: id, RoundID: roundID})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error; err != nil {
		return fmt.Errorf("failed to grant round access: %w", err)
	}
	return nil
}

// accessibleRounds returns the round ids granted to a team
func accessibleRounds(tx *gorm.DB, teamID string) ([]string, error) {
	var ids []string
	err := tx.Model(&models.TeamRound{}).
		Where("team_id = ?", teamID).
		Order("granted_at, round_id").
		Pluck("round_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return ids, nil
}

// mapWriteError turns a unique index rejection into a Conflict with msg
func mapWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return &Error{Kind: KindConflict, Message: msg, Err: err}
	}
	return fmt.Errorf("database error: %w", err)
}
