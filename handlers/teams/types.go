package teams

const (
	ErrInvalidRequest = "Invalid request data"
	ErrMissingFile    = "An xlsx file is required in the file field"
)

// ShortlistRequest qualifies a team for a round
type ShortlistRequest struct {
	RoundID string `json:"round_id" binding:"required"`
}

type LockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}
