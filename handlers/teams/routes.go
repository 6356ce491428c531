package teams

import (
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers the admin routes managing teams
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	teams := r.Group("/teams")
	teams.Use(middleware.RequireRoles(services.RoleAdmin))
	{
		teams.GET("", h.ListTeams)
		teams.POST("/import", h.ImportTeams)
		teams.GET("/:id", h.GetTeam)
		teams.POST("/:id/shortlist", h.Shortlist)
		teams.PATCH("/:id/lock", h.SetLocked)
	}
}
