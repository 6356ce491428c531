package team

import "hackathon-api/models"

const (
	ErrInvalidRequest = "Invalid request data"
	ErrNoSelection    = "No subtask selected for this round"
)

// SelectSubtaskRequest records the team's pick among its displayed subtasks
type SelectSubtaskRequest struct {
	SubtaskID string `json:"subtask_id"`
}

// ChooseOptionRequest records the team's pick among its published options
type ChooseOptionRequest struct {
	SubtaskID string `json:"subtask_id"`
}

// SubmitRequest model for a round submission. One of file_url or github_link is needed.
type SubmitRequest struct {
	FileURL    string `json:"file_url" binding:"omitempty,url"`
	GithubLink string `json:"github_link" binding:"omitempty,url"`
	Overview   string `json:"overview" binding:"max=5000"`
}

// SubtasksResponse wraps the displayed batch
type SubtasksResponse struct {
	Subtasks []models.Subtask `json:"subtasks"`
}
