package services

import (
	"context"
	"fmt"

	"hackathon-api/models"
)

type CreateSubtaskRequest struct {
	Title       string
	Description string
	TrackID     string
}

// CreateSubtask adds an active subtask to a round
func (s *RoundService) CreateSubtask(ctx context.Context, actor Actor, roundID string, req CreateSubtaskRequest) (*models.Subtask, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	if req.Title == "" || req.TrackID == "" {
		return nil, validationError("title and track_id are required")
	}

	db := s.db.WithContext(ctx)
	if _, err := loadRound(db, roundID); err != nil {
		return nil, err
	}
	var count int64
	if err := db.Model(&models.Track{}).Where("id = ?", req.TrackID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, notFound("track %s not found", req.TrackID)
	}

	subtask := models.Subtask{
		Title:       req.Title,
		Description: req.Description,
		TrackID:     req.TrackID,
		RoundID:     roundID,
		IsActive:    true,
	}
	if err := db.Create(&subtask).Error; err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return &subtask, nil
}

// ListSubtasks returns the subtasks of a round, active or not
func (s *RoundService) ListSubtasks(ctx context.Context, roundID string) ([]models.Subtask, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadRound(db, roundID); err != nil {
		return nil, err
	}
	var subtasks []models.Subtask
	if err := db.Where("round_id = ?", roundID).Order("title, id").Find(&subtasks).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return subtasks, nil
}

// SetSubtaskActive takes a subtask in or out of the display pool. Batches already shown are kept.
func (s *RoundService) SetSubtaskActive(ctx context.Context, actor Actor, subtaskID string, active bool) (*models.Subtask, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Subtask{}).Where("id = ?", subtaskID).Update("is_active", active)
	if res.Error != nil {
		return nil, fmt.Errorf("database error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("subtask %s not found", subtaskID)
	}
	var subtask models.Subtask
	if err := db.Where("id = ?", subtaskID).First(&subtask).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &subtask, nil
}
