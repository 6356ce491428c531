package services

// TeamStanding is what priority between two paired teams is decided on
type TeamStanding struct {
	TeamID      string  `json:"team_id"`
	Cumulative  float64 `json:"cumulative_score"`
	AnchorRound float64 `json:"anchor_round_score"`
}

// Priority names which team of a pair chooses first
type Priority struct {
	PriorityTeamID string `json:"priority_team_id"`
	PairedTeamID   string `json:"paired_team_id"`
}

// ResolvePriority orders two teams by cumulative score, then anchor round score,
// then by the smaller id. The result does not depend on argument order.
func ResolvePriority(a, b TeamStanding) Priority {
	if outranks(b, a) {
		a, b = b, a
	}
	return Priority{PriorityTeamID: a.TeamID, PairedTeamID: b.TeamID}
}

func outranks(a, b TeamStanding) bool {
	if a.Cumulative != b.Cumulative {
		return a.Cumulative > b.Cumulative
	}
	if a.AnchorRound != b.AnchorRound {
		return a.AnchorRound > b.AnchorRound
	}
	return a.TeamID < b.TeamID
}
