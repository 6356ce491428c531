package services

import (
	"context"
	"fmt"
	"log/slog"

	"hackathon-api/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamAssignment is a manual publication of options to one team
type TeamAssignment struct {
	TeamID     string
	SubtaskIDs []string
}

// OptionsView is a team's published options with the subtasks they refer to
type OptionsView struct {
	models.RoundOptions
	Subtasks []models.Subtask `json:"subtasks"`
}

// OptionsService publishes option sets to teams and records their choice
type OptionsService struct {
	*core
}

// AssignTeamOptions publishes options in team mode. Existing choices are left untouched.
func (s *OptionsService) AssignTeamOptions(ctx context.Context, actor Actor, roundID string, assignments []TeamAssignment) (int, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return 0, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadRound(tx, roundID); err != nil {
			return err
		}
		now := s.now()
		for _, a := range assignments {
			team, err := loadTeam(tx, a.TeamID)
			if err != nil {
				return err
			}
			ids := uniqueIDs(a.SubtaskIDs)
			if len(ids) == 0 {
				return validationError("subtask_ids must not be empty for team %s", a.TeamID)
			}
			var count int64
			if err := tx.Model(&models.Subtask{}).Where("id IN ? AND track_id = ?", ids, team.TrackID).Count(&count).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			if int(count) != len(ids) {
				return validationError("every subtask must exist in the team's track")
			}

			row := models.RoundOptions{
				TeamID:         team.ID,
				RoundID:        roundID,
				Options:        datatypes.JSONSlice[string](ids),
				AssignmentMode: models.AssignmentModeTeam,
				PublishedAt:    &now,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "team_id"}, {Name: "round_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"options", "assignment_mode", "pair_id", "priority_team_id", "paired_team_id", "published_at",
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to publish options: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("team options published", slog.String("round_id", roundID), slog.Int("count", len(assignments)))
	return len(assignments), nil
}

// ListAssignments returns every option set published for a round
func (s *OptionsService) ListAssignments(ctx context.Context, actor Actor, roundID string) ([]models.RoundOptions, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := loadRound(db, roundID); err != nil {
		return nil, err
	}
	var rows []models.RoundOptions
	if err := db.Where("round_id = ?", roundID).Order("team_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rows, nil
}

// GetOptions returns the options published to the calling team
func (s *OptionsService) GetOptions(ctx context.Context, actor Actor, roundID string) (*OptionsView, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := loadRound(db, roundID); err != nil {
		return nil, err
	}
	ok, err := hasRoundAccess(db, actor.ID, roundID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("team does not have access to this round")
	}

	row, err := findOptions(db, actor.ID, roundID, false)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("no options published for this round")
	}

	view := &OptionsView{RoundOptions: *row, Subtasks: []models.Subtask{}}
	if len(row.Options) > 0 {
		if err := db.Where("id IN ?", []string(row.Options)).Order("title").Find(&view.Subtasks).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}
	return view, nil
}

// ChooseOption records the calling team's choice among its published options.
// In pair mode the priority team chooses first and the paired team must take the other option.
func (s *OptionsService) ChooseOption(ctx context.Context, actor Actor, roundID, subtaskID string) (*models.RoundOptions, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}
	if subtaskID == "" {
		return nil, validationError("subtask_id is required")
	}

	var chosen *models.RoundOptions
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: Round must be running and accessible
		round, err := loadRound(tx, roundID)
		if err != nil {
			return err
		}
		if !round.IsActive {
			return invalidState("round is not active")
		}
		if err := lockRoundAccess(tx, actor.ID, roundID); err != nil {
			return err
		}

		// Step 2: Choose only among what was published, once
		row, err := findOptions(tx, actor.ID, roundID, true)
		if err != nil {
			return err
		}
		if row == nil {
			return notFound("no options published for this round")
		}
		if !row.HasOption(subtaskID) {
			return forbidden("subtask is not among the published options")
		}
		if row.Selected != nil {
			return conflict("an option was already chosen for this round")
		}

		// Step 3: The paired team waits for the priority team
		if row.AssignmentMode == models.AssignmentModePair && row.PriorityTeamID != nil && *row.PriorityTeamID != actor.ID {
			first, err := findOptions(tx, *row.PriorityTeamID, roundID, false)
			if err != nil {
				return err
			}
			if first == nil || first.Selected == nil {
				return invalidState("waiting for the priority team to choose")
			}
			if *first.Selected == subtaskID {
				return conflict("option already taken by the priority team")
			}
		}

		now := s.now()
		res := tx.Model(&models.RoundOptions{}).
			Where("id = ? AND selected IS NULL", row.ID).
			Updates(map[string]interface{}{"selected": subtaskID, "selected_at": now})
		if res.Error != nil {
			return fmt.Errorf("database error: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("an option was already chosen for this round")
		}
		row.Selected, row.SelectedAt = &subtaskID, &now
		chosen = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("option chosen", slog.String("team_id", actor.ID), slog.String("round_id", roundID), slog.String("subtask_id", subtaskID))
	return chosen, nil
}

// findOptions returns nil without error when nothing was published
func findOptions(tx *gorm.DB, teamID, roundID string, lock bool) (*models.RoundOptions, error) {
	q := tx.Where("team_id = ? AND round_id = ?", teamID, roundID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.RoundOptions
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
