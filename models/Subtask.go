package models

import (
	"time"

	"gorm.io/gorm"
)

// Subtask is a task option offered to teams in one round of one track
type Subtask struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	TrackID     string    `gorm:"type:varchar(36);not null;index:idx_subtasks_track" json:"track_id"`
	RoundID     string    `gorm:"type:varchar(36);not null;index:idx_subtasks_round" json:"round_id"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// TeamSubtaskDisplay records one option shown to a team for a round. A batch is written once.
type TeamSubtaskDisplay struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TeamID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_display_slot,priority:1;uniqueIndex:idx_display_subtask,priority:1" json:"team_id"`
	RoundID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_display_slot,priority:2;uniqueIndex:idx_display_subtask,priority:2" json:"round_id"`
	Position  int       `gorm:"not null;uniqueIndex:idx_display_slot,priority:3" json:"position"`
	SubtaskID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_display_subtask,priority:3" json:"subtask_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *TeamSubtaskDisplay) BeforeCreate(tx *gorm.DB) error {
	d.ID = newID(d.ID)
	return nil
}

// TeamSubtaskSelection is the one-shot committed choice of a team for a round
type TeamSubtaskSelection struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TeamID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_selection_team_round,priority:1" json:"team_id"`
	RoundID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_selection_team_round,priority:2" json:"round_id"`
	SubtaskID  string    `gorm:"type:varchar(36);not null" json:"subtask_id"`
	SelectedAt time.Time `gorm:"not null" json:"selected_at"`
}

func (s *TeamSubtaskSelection) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}
