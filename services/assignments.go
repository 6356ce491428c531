package services

import (
	"context"
	"fmt"

	"hackathon-api/models"

	"gorm.io/gorm"
)

// AssignmentChecker answers whether a judge may score a team in a round
type AssignmentChecker interface {
	IsAssigned(ctx context.Context, judgeID, teamID, roundID string) (bool, error)
}

// DBAssignments reads judge_assignments. A row without round covers every round.
type DBAssignments struct {
	DB *gorm.DB
}

func (a *DBAssignments) IsAssigned(ctx context.Context, judgeID, teamID, roundID string) (bool, error) {
	var count int64
	err := a.DB.WithContext(ctx).Model(&models.JudgeAssignment{}).
		Where("judge_id = ? AND team_id = ? AND (round_id IS NULL OR round_id = ?)", judgeID, teamID, roundID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// AssignedTeams lists the teams a judge may score in a round
func (a *DBAssignments) AssignedTeams(ctx context.Context, judgeID, roundID string) ([]models.Team, error) {
	var teams []models.Team
	err := a.DB.WithContext(ctx).
		Model(&models.Team{}).
		Joins("JOIN judge_assignments ja ON ja.team_id = teams.id").
		Where("ja.judge_id = ? AND (ja.round_id IS NULL OR ja.round_id = ?)", judgeID, roundID).
		Distinct("teams.*").
		Order("teams.name").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return teams, nil
}
