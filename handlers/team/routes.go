package team

import (
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

// Handler serves the calls a team makes during a round
type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers the team facing routes
// r: the authenticated RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	team := r.Group("/team")
	team.Use(middleware.RequireRoles(services.RoleTeam))
	{
		team.GET("/me", h.GetMe)
		team.GET("/dashboard", h.GetDashboard)
		team.GET("/rounds", h.GetRounds)

		// Display and selection
		team.GET("/rounds/:round_id/subtasks/random", h.GetRandomSubtasks)
		team.POST("/rounds/:round_id/select", h.SelectSubtask)
		team.GET("/rounds/:round_id/selection", h.GetSelection)

		// Published options
		team.GET("/rounds/:round_id/options", h.GetOptions)
		team.POST("/rounds/:round_id/options/choose", h.ChooseOption)

		// Submissions
		team.POST("/rounds/:round_id/submission", h.Submit)
		team.GET("/submissions", h.GetSubmissions)
		team.GET("/pair/submissions", h.GetPairSubmissions)
	}
}
