package judges

import (
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers the judging routes and the admin route assigning judges
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	judge := r.Group("/judge")
	judge.Use(middleware.RequireRoles(services.RoleJudge))
	{
		judge.GET("/rounds/:round_id/teams", h.GetAssignedTeams)
		judge.GET("/rounds/:round_id/teams/:team_id", h.GetEvaluation)
		judge.POST("/rounds/:round_id/teams/:team_id/score", h.ScoreTeam)
		judge.PATCH("/rounds/:round_id/teams/:team_id/score", h.ScoreTeam)
		judge.PUT("/submissions/:submission_id/score", h.ScoreSubmission)
	}

	r.POST("/judges/:judge_id/assignments", middleware.RequireRoles(services.RoleAdmin), h.AssignJudge)
}
