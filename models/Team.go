package models

import (
	"time"

	"gorm.io/gorm"
)

// Team represents a competing team bound to a single track
type Team struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	TrackID       string    `gorm:"type:varchar(36);not null;index:idx_teams_track" json:"track_id"`
	IsLocked      bool      `gorm:"not null;default:false" json:"is_locked"`
	IsShortlisted bool      `gorm:"not null;default:false" json:"is_shortlisted"`
	IsEliminated  bool      `gorm:"not null;default:false" json:"is_eliminated"`
	CreatedAt     time.Time `json:"created_at"`
	// RoundsAccessible is loaded from team_rounds on demand
	RoundsAccessible []string `gorm:"-" json:"rounds_accessible,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	t.ID = newID(t.ID)
	return nil
}

// TeamRound grants a team access to a round. Rows are only ever added.
type TeamRound struct {
	TeamID    string    `gorm:"type:varchar(36);primaryKey" json:"team_id"`
	RoundID   string    `gorm:"type:varchar(36);primaryKey;index:idx_team_rounds_round" json:"round_id"`
	GrantedAt time.Time `gorm:"autoCreateTime" json:"granted_at"`
}

func (TeamRound) TableName() string {
	return "team_rounds"
}
