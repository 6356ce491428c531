package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is the current project submitted by a team for a round
type Submission struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TeamID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_submissions_team_round,priority:1" json:"team_id"`
	RoundID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_submissions_team_round,priority:2" json:"round_id"`
	FileURL     string    `gorm:"type:varchar(512)" json:"file_url"`
	GithubLink  string    `gorm:"type:varchar(512)" json:"github_link"`
	Overview    string    `gorm:"type:text" json:"overview"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}
