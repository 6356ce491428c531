package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentMode string

const (
	AssignmentModeTeam AssignmentMode = "team"
	AssignmentModePair AssignmentMode = "pair"
)

// RoundOptions is the option set published to a team for a round, and what it chose from it
type RoundOptions struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	TeamID         string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_round_options_team_round,priority:1" json:"team_id"`
	RoundID        string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_round_options_team_round,priority:2;index:idx_round_options_round" json:"round_id"`
	Options        datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	Selected       *string                     `gorm:"type:varchar(36)" json:"selected"`
	SelectedAt     *time.Time                  `json:"selected_at"`
	AssignmentMode AssignmentMode              `gorm:"type:varchar(10);not null;default:'team'" json:"assignment_mode"`
	PairID         *string                     `gorm:"type:varchar(36);index:idx_round_options_pair" json:"pair_id"`
	PriorityTeamID *string                     `gorm:"type:varchar(36)" json:"priority_team_id"`
	PairedTeamID   *string                     `gorm:"type:varchar(36)" json:"paired_team_id"`
	PublishedAt    *time.Time                  `json:"published_at"`
	AutoAssigned   bool                        `gorm:"not null;default:false" json:"auto_assigned"`
	CreatedAt      time.Time                   `json:"created_at"`
}

func (o *RoundOptions) BeforeCreate(tx *gorm.DB) error {
	o.ID = newID(o.ID)
	if o.Options == nil {
		o.Options = datatypes.JSONSlice[string]{}
	}
	if o.AssignmentMode == "" {
		o.AssignmentMode = AssignmentModeTeam
	}
	return nil
}

// HasOption reports whether subtaskID was published to the team
func (o *RoundOptions) HasOption(subtaskID string) bool {
	for _, id := range o.Options {
		if id == subtaskID {
			return true
		}
	}
	return false
}
