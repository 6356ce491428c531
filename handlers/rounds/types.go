package rounds

import "time"

const (
	ErrInvalidRequest = "Invalid request data"
	ErrUnknownAction  = "action must be one of start, stop, toggle"

	MsgPairRemoved = "Pair removed successfully"
)

// Round actions accepted by PATCH /rounds/:id
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionToggle = "toggle"
)

// RoundActionRequest drives the round lifecycle
type RoundActionRequest struct {
	Action string `json:"action" binding:"required,oneof=start stop toggle"`
}

// CreateRoundRequest model for creating a round
type CreateRoundRequest struct {
	RoundNumber       int        `json:"round_number" binding:"required,min=1"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	SubmissionEnabled bool       `json:"submission_enabled"`
	Instructions      string     `json:"instructions"`
}

// CreateSubtaskRequest model for adding a subtask to a round
type CreateSubtaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	TrackID     string `json:"track_id" binding:"required"`
}

type SubtaskActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CreatePairRequest pairs two teams on an anchor round
type CreatePairRequest struct {
	TeamAID string `json:"team_a_id" binding:"required"`
	TeamBID string `json:"team_b_id" binding:"required"`
}

type PairAllocationItem struct {
	PairID     string   `json:"pair_id" binding:"required"`
	SubtaskIDs []string `json:"subtask_ids" binding:"required"`
}

// AllocatePairsRequest publishes shared options to paired teams
type AllocatePairsRequest struct {
	Allocations []PairAllocationItem `json:"allocations" binding:"required,dive"`
}

type TeamAssignmentItem struct {
	TeamID     string   `json:"team_id" binding:"required"`
	SubtaskIDs []string `json:"subtask_ids" binding:"required"`
}

// AssignTeamOptionsRequest publishes options to single teams
type AssignTeamOptionsRequest struct {
	Assignments []TeamAssignmentItem `json:"assignments" binding:"required,dive"`
}

type CountResponse struct {
	Count int `json:"count"`
}
