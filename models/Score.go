package models

import (
	"time"

	"gorm.io/gorm"
)

type ScoreStatus string

const (
	ScoreStatusPending ScoreStatus = "pending"
	ScoreStatusScored  ScoreStatus = "scored"
)

// Score is one judge's evaluation of a submission. Single-score rounds fill Score,
// dual-score rounds fill SecScore and FacultyScore.
type Score struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	JudgeID      string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_scores_judge_submission,priority:1" json:"judge_id"`
	SubmissionID string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_scores_judge_submission,priority:2;index:idx_scores_submission" json:"submission_id"`
	Score        *float64    `json:"score"`
	SecScore     *float64    `json:"sec_score"`
	FacultyScore *float64    `json:"faculty_score"`
	Remarks      string      `gorm:"type:text" json:"remarks"`
	Status       ScoreStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (s *Score) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// JudgeAssignment links a judge to a team. A nil RoundID covers every round.
type JudgeAssignment struct {
	ID      string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	JudgeID string  `gorm:"type:varchar(36);not null;index:idx_judge_assignments_judge" json:"judge_id"`
	TeamID  string  `gorm:"type:varchar(36);not null" json:"team_id"`
	RoundID *string `gorm:"type:varchar(36)" json:"round_id"`
}

func (a *JudgeAssignment) BeforeCreate(tx *gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}
