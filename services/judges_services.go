package services

import (
	"context"
	"fmt"
	"log/slog"

	"hackathon-api/models"

	"gorm.io/gorm"
)

// AssignJudge lets judgeID score teamID, in roundID only when it is set
func (s *ScoreService) AssignJudge(ctx context.Context, actor Actor, judgeID, teamID string, roundID *string) (*models.JudgeAssignment, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	if judgeID == "" || teamID == "" {
		return nil, validationError("judge_id and team_id are required")
	}

	db := s.db.WithContext(ctx)
	if _, err := loadTeam(db, teamID); err != nil {
		return nil, err
	}
	q := db.Where("judge_id = ? AND team_id = ?", judgeID, teamID)
	if roundID != nil {
		if _, err := loadRound(db, *roundID); err != nil {
			return nil, err
		}
		q = q.Where("round_id = ?", *roundID)
	} else {
		q = q.Where("round_id IS NULL")
	}

	assignment := models.JudgeAssignment{JudgeID: judgeID, TeamID: teamID, RoundID: roundID}
	if err := q.FirstOrCreate(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to assign judge: %w", err)
	}
	s.logger.Info("judge assigned", slog.String("judge_id", judgeID), slog.String("team_id", teamID))
	return &assignment, nil
}

// AssignedTeams lists the teams the calling judge may score in roundID
func (s *ScoreService) AssignedTeams(ctx context.Context, actor Actor, roundID string) ([]models.Team, error) {
	if err := actor.require(RoleJudge); err != nil {
		return nil, err
	}
	if _, err := loadRound(s.db.WithContext(ctx), roundID); err != nil {
		return nil, err
	}
	return (&DBAssignments{DB: s.db}).AssignedTeams(ctx, actor.ID, roundID)
}

// EvaluatedTeam is a team with the name of its track
type EvaluatedTeam struct {
	models.Team
	Track string `json:"track"`
}

// Evaluation is what a judge sees when opening a team for a round, with the judge's own score so far
type Evaluation struct {
	Round           models.Round       `json:"round"`
	Team            EvaluatedTeam      `json:"team"`
	SelectedSubtask *models.Subtask    `json:"selected_subtask"`
	Submission      *models.Submission `json:"submission"`
	Score           *float64           `json:"score"`
	SecScore        *float64           `json:"sec_score"`
	FacultyScore    *float64           `json:"faculty_score"`
	Remarks         string             `json:"remarks"`
	Status          models.ScoreStatus `json:"status"`
	DualScore       bool               `json:"dual_score"`
}

// Evaluation returns the team's work in roundID for the calling judge, who must be assigned to the team.
// roundID may be ActiveRoundAlias.
func (s *ScoreService) Evaluation(ctx context.Context, actor Actor, roundID, teamID string) (*Evaluation, error) {
	if err := actor.require(RoleJudge); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	round, err := resolveRound(db, roundID)
	if err != nil {
		return nil, err
	}
	team, err := loadTeam(db, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssigned(ctx, actor, team.ID, round.ID); err != nil {
		return nil, err
	}

	var track models.Track
	if err := db.Where("id = ?", team.TrackID).Limit(1).Find(&track).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	eval := &Evaluation{
		Round:     *round,
		Team:      EvaluatedTeam{Team: *team, Track: track.Name},
		Status:    models.ScoreStatusPending,
		DualScore: s.policy.IsDualScore(round.RoundNumber),
	}

	if eval.SelectedSubtask, err = selectedSubtask(db, team.ID, round.ID); err != nil {
		return nil, err
	}

	var subs []models.Submission
	if err := db.Where("team_id = ? AND round_id = ?", team.ID, round.ID).Limit(1).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(subs) == 0 {
		return eval, nil
	}
	eval.Submission = &subs[0]

	var scores []models.Score
	if err := db.Where("judge_id = ? AND submission_id = ?", actor.ID, subs[0].ID).Limit(1).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(scores) > 0 {
		sc := scores[0]
		eval.Score, eval.SecScore, eval.FacultyScore = sc.Score, sc.SecScore, sc.FacultyScore
		eval.Remarks, eval.Status = sc.Remarks, sc.Status
	}
	return eval, nil
}

// selectedSubtask is the team's committed choice in roundID, from its selection or its published options
func selectedSubtask(tx *gorm.DB, teamID, roundID string) (*models.Subtask, error) {
	var subtaskID string
	var selections []models.TeamSubtaskSelection
	if err := tx.Where("team_id = ? AND round_id = ?", teamID, roundID).Limit(1).Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(selections) > 0 {
		subtaskID = selections[0].SubtaskID
	} else {
		opts, err := findOptions(tx, teamID, roundID, false)
		if err != nil {
			return nil, err
		}
		if opts == nil || opts.Selected == nil {
			return nil, nil
		}
		subtaskID = *opts.Selected
	}

	var subtasks []models.Subtask
	if err := tx.Where("id = ?", subtaskID).Limit(1).Find(&subtasks).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(subtasks) == 0 {
		return nil, nil
	}
	return &subtasks[0], nil
}
