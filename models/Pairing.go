package models

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// Pairing groups two teams of one track, anchored to the round whose scores made them eligible
type Pairing struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoundAnchorID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_pairings_anchor_key,priority:1" json:"round_anchor_id"`
	TrackID       string    `gorm:"type:varchar(36);not null" json:"track_id"`
	TeamAID       string    `gorm:"type:varchar(36);not null;index:idx_pairings_team_a" json:"team_a_id"`
	TeamBID       string    `gorm:"type:varchar(36);not null;index:idx_pairings_team_b" json:"team_b_id"`
	PairKey       string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_pairings_anchor_key,priority:2" json:"pair_key"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Pairing) BeforeCreate(tx *gorm.DB) error {
	p.ID = newID(p.ID)
	p.PairKey = PairKey(p.TeamAID, p.TeamBID)
	return nil
}

// PairKey is the canonical "idA:idB" key with both ids sorted
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

// Members returns both team ids
func (p *Pairing) Members() []string {
	return []string{p.TeamAID, p.TeamBID}
}

// Partner returns the id of the other team of the pair
func (p *Pairing) Partner(teamID string) string {
	if p.TeamAID == teamID {
		return p.TeamBID
	}
	return p.TeamAID
}
