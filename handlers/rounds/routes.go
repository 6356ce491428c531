package rounds

import (
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

// Handler serves round administration
type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers all routes related to rounds.
// r must already carry the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	// Readable by every authenticated actor
	r.GET("/rounds", h.ListRounds)
	r.GET("/rounds/active", h.GetActiveRound)
	r.GET("/rounds/:id", h.GetRound)

	admin := r.Group("", middleware.RequireRoles(services.RoleAdmin))
	{
		admin.POST("/rounds", h.CreateRound)
		admin.PATCH("/rounds/:id", h.UpdateRound)

		admin.GET("/rounds/:id/subtasks", h.ListSubtasks)
		admin.POST("/rounds/:id/subtasks", h.CreateSubtask)
		admin.PATCH("/subtasks/:id", h.SetSubtaskActive)

		admin.GET("/rounds/:id/pairs", h.ListPairs)
		admin.POST("/rounds/:id/pairs", h.CreatePair)
		admin.DELETE("/rounds/:id/pairs/:pair_id", h.RemovePair)
		admin.POST("/rounds/:id/allocate-pairs", h.AllocatePairs)

		admin.GET("/rounds/:id/team-subtasks", h.ListAssignments)
		admin.POST("/rounds/:id/team-subtasks", h.AssignTeamOptions)
	}
}
