package moderation

import "hackathon-api/models"

const (
	ErrInvalidRequest = "Invalid request data"

	MsgScoreUpdated      = "Score updated successfully"
	MsgScoreDeleted      = "Score deleted successfully"
	MsgSubmissionUpdated = "Submission updated successfully"
	MsgSubmissionDeleted = "Submission deleted successfully"
)

// UpdateScoreRequest corrects a score. Omitted fields are kept.
type UpdateScoreRequest struct {
	Score        *float64 `json:"score" binding:"omitempty,min=0,max=100"`
	SecScore     *float64 `json:"sec_score" binding:"omitempty,min=0,max=100"`
	FacultyScore *float64 `json:"faculty_score" binding:"omitempty,min=0,max=100"`
	Remarks      *string  `json:"remarks" binding:"omitempty,max=2000"`
}

// UpdateSubmissionRequest corrects a submission. Omitted fields are kept.
type UpdateSubmissionRequest struct {
	FileURL    *string `json:"file_url" binding:"omitempty,url"`
	GithubLink *string `json:"github_link" binding:"omitempty,url"`
	Overview   *string `json:"overview" binding:"omitempty,max=5000"`
}

type ScoreResponse struct {
	Message string        `json:"message"`
	Score   *models.Score `json:"score"`
}

type SubmissionResponse struct {
	Message    string             `json:"message"`
	Submission *models.Submission `json:"submission"`
}
