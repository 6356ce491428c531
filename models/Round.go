package models

import (
	"time"

	"gorm.io/gorm"
)

// Round represents a time-boxed stage of the competition with its own subtasks and submission policy
type Round struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoundNumber       int        `gorm:"not null;uniqueIndex:idx_rounds_number" json:"round_number"`
	IsActive          bool       `gorm:"not null;default:false" json:"is_active"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	SubmissionEnabled bool       `gorm:"not null;default:false" json:"submission_enabled"`
	Instructions      string     `gorm:"type:text" json:"instructions"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}
