package models

import "gorm.io/gorm"

// Track groups teams, subtasks and judges working on the same problem statement
type Track struct {
	ID   string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tracks_name" json:"name"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	t.ID = newID(t.ID)
	return nil
}
