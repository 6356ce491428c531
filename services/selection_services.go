package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hackathon-api/metrics"
	"hackathon-api/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// SelectionService records the one-shot subtask choice of a team
type SelectionService struct {
	*core
}

// Select commits subtaskID as the team's choice for roundID. The choice can never change.
func (s *SelectionService) Select(ctx context.Context, actor Actor, roundID, subtaskID string) (_ *models.TeamSubtaskSelection, err error) {
	ctx, span := startSpan(ctx, "selections.Select", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.String("team.id", actor.ID),
	))
	defer func() {
		endSpan(span, err)
		metrics.Selections.WithLabelValues(outcomeLabel(err)).Inc()
	}()

	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}
	if subtaskID == "" {
		return nil, validationError("subtask_id is required")
	}

	var selection *models.TeamSubtaskSelection
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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

		// Step 2: A selection is final
		var count int64
		if err := tx.Model(&models.TeamSubtaskSelection{}).
			Where("team_id = ? AND round_id = ?", actor.ID, roundID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return conflict("subtask already selected for this round")
		}

		// Step 3: Validate the subtask against what the team was shown
		var subtask models.Subtask
		if err := tx.Where("id = ?", subtaskID).First(&subtask).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("subtask %s not found", subtaskID)
			}
			return fmt.Errorf("database error: %w", err)
		}
		shown, err := isDisplayed(tx, actor.ID, roundID, subtaskID)
		if err != nil {
			return err
		}
		if !shown {
			return forbidden("subtask was not displayed to this team")
		}
		if subtask.RoundID != roundID || !subtask.IsActive {
			return invalidState("subtask is not available in this round")
		}

		// Step 4: Persist, the unique index catches a concurrent duplicate
		selection = &models.TeamSubtaskSelection{
			TeamID:     actor.ID,
			RoundID:    roundID,
			SubtaskID:  subtaskID,
			SelectedAt: s.now(),
		}
		if err := tx.Create(selection).Error; err != nil {
			return mapWriteError(err, "subtask already selected for this round")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subtask selected", slog.String("team_id", actor.ID), slog.String("round_id", roundID), slog.String("subtask_id", subtaskID))
	return selection, nil
}

// Current returns the team's selection for roundID, nil when none was made
func (s *SelectionService) Current(ctx context.Context, actor Actor, roundID string) (*models.TeamSubtaskSelection, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}
	var selections []models.TeamSubtaskSelection
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND round_id = ?", actor.ID, roundID).
		Limit(1).
		Find(&selections).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(selections) == 0 {
		return nil, nil
	}
	return &selections[0], nil
}

// outcomeLabel is the metrics label of an operation result
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
