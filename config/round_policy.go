package config

import "fmt"

// RoundPolicy tells which round numbers carry the special pairing and scoring rules
type RoundPolicy struct {
	// PairAnchorRound is the round whose scores define pairing eligibility
	PairAnchorRound int `env:"PAIR_ANCHOR_ROUND" envDefault:"2"`
	// PairStageRound is the round in which paired teams share an option set
	PairStageRound int `env:"PAIR_STAGE_ROUND" envDefault:"3"`
	// DualScoreRound is judged with a sec score and a faculty score instead of a single score
	DualScoreRound int `env:"DUAL_SCORE_ROUND" envDefault:"4"`
}

// DefaultRoundPolicy mirrors the envDefault values
var DefaultRoundPolicy = RoundPolicy{
	PairAnchorRound: 2,
	PairStageRound:  3,
	DualScoreRound:  4,
}

func (p RoundPolicy) IsPairAnchor(roundNumber int) bool {
	return roundNumber == p.PairAnchorRound
}

func (p RoundPolicy) IsPairStage(roundNumber int) bool {
	return roundNumber == p.PairStageRound
}

func (p RoundPolicy) IsDualScore(roundNumber int) bool {
	return roundNumber == p.DualScoreRound
}

// Validate rejects policies where pairs would be published before they can exist
func (p RoundPolicy) Validate() error {
	if p.PairAnchorRound <= 0 || p.PairStageRound <= 0 || p.DualScoreRound <= 0 {
		return fmt.Errorf("round policy numbers must be positive: %+v", p)
	}
	if p.PairStageRound <= p.PairAnchorRound {
		return fmt.Errorf("pair stage round %d must come after anchor round %d", p.PairStageRound, p.PairAnchorRound)
	}
	return nil
}
