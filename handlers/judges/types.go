package judges

const ErrInvalidRequest = "Invalid request data"

// ScoreRequest carries either a single score or, in dual-score rounds, both partial scores
type ScoreRequest struct {
	Score        *float64 `json:"score" binding:"omitempty,min=0,max=100"`
	SecScore     *float64 `json:"sec_score" binding:"omitempty,min=0,max=100"`
	FacultyScore *float64 `json:"faculty_score" binding:"omitempty,min=0,max=100"`
	Remarks      string   `json:"remarks" binding:"max=2000"`
}

// AssignJudgeRequest binds a judge to a team, for one round or for all of them
type AssignJudgeRequest struct {
	TeamID  string  `json:"team_id" binding:"required"`
	RoundID *string `json:"round_id"`
}
