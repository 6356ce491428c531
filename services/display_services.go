package services

import (
	"context"
	"fmt"
	"log/slog"

	"hackathon-api/metrics"
	"hackathon-api/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// displayBatchSize is how many subtasks a team is shown per round
const displayBatchSize = 2

// DisplayService assigns each team a stable random pair of subtasks per round
type DisplayService struct {
	*core
	group singleflight.Group
}

// GetOrAssign returns the subtasks displayed to the calling team for roundID,
// drawing and persisting them on the first call. Later calls return the same batch.
func (s *DisplayService) GetOrAssign(ctx context.Context, actor Actor, roundID string) (_ []models.Subtask, err error) {
	ctx, span := startSpan(ctx, "displays.GetOrAssign", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.String("team.id", actor.ID),
	))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}

	// Step 1: The round must be running
	round, err := loadRound(s.db.WithContext(ctx), roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive {
		return nil, invalidState("round is not active")
	}

	// Step 2: Coalesce concurrent callers of the same team and round. The draw
	// outlives the caller that started it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(actor.ID+":"+roundID, func() (interface{}, error) {
		return s.findOrCreate(shared, actor.ID, roundID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Subtask), nil
}

func (s *DisplayService) findOrCreate(ctx context.Context, teamID, roundID string) ([]models.Subtask, error) {
	var (
		batch   []models.Subtask
		outcome string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: Check access while holding the team's grant row
		if err := lockRoundAccess(tx, teamID, roundID); err != nil {
			return err
		}

		// Step 2: An existing batch is final
		existing, err := displayedSubtasks(tx, teamID, roundID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			batch, outcome = existing, "reused"
			return nil
		}

		// Step 3: Draw from the active subtasks of the round
		var pool []models.Subtask
		if err := tx.Where("round_id = ? AND is_active = ?", roundID, true).Order("id").Find(&pool).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		picked := pickSubtasks(pool, displayBatchSize, s.perm)
		if len(picked) == 0 {
			batch, outcome = []models.Subtask{}, "empty"
			return nil
		}

		rows := make([]models.TeamSubtaskDisplay, 0, len(picked))
		for i, st := range picked {
			rows = append(rows, models.TeamSubtaskDisplay{
				TeamID:    teamID,
				RoundID:   roundID,
				Position:  i,
				SubtaskID: st.ID,
			})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to store displayed subtasks: %w", err)
		}

		// Step 4: Re-read so a batch written first by another process wins
		batch, err = displayedSubtasks(tx, teamID, roundID)
		outcome = "created"
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.DisplayAllocations.WithLabelValues(outcome).Inc()
	if outcome == "created" {
		s.logger.Info("subtasks displayed", slog.String("team_id", teamID), slog.String("round_id", roundID), slog.Int("count", len(batch)))
	}
	return batch, nil
}

// displayedSubtasks returns the stored batch in display order
func displayedSubtasks(tx *gorm.DB, teamID, roundID string) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := tx.Model(&models.Subtask{}).
		Joins("JOIN team_subtask_displays d ON d.subtask_id = subtasks.id").
		Where("d.team_id = ? AND d.round_id = ?", teamID, roundID).
		Order("d.position").
		Find(&subtasks).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return subtasks, nil
}

func isDisplayed(tx *gorm.DB, teamID, roundID, subtaskID string) (bool, error) {
	var count int64
	err := tx.Model(&models.TeamSubtaskDisplay{}).
		Where("team_id = ? AND round_id = ? AND subtask_id = ?", teamID, roundID, subtaskID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// pickSubtasks returns up to n distinct entries of pool in the order given by perm
func pickSubtasks(pool []models.Subtask, n int, perm func(int) []int) []models.Subtask {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]models.Subtask, 0, n)
	for _, idx := range perm(len(pool))[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}
