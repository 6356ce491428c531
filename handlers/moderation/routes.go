package moderation

import (
	"hackathon-api/middleware"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers the admin routes correcting recorded scores and submissions
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireRoles(services.RoleAdmin))
	{
		admin.GET("/scores/:score_id", h.GetScore)
		admin.PATCH("/scores/:score_id", h.UpdateScore)
		admin.DELETE("/scores/:score_id", h.DeleteScore)

		admin.GET("/submissions/:submission_id", h.GetSubmission)
		admin.PATCH("/submissions/:submission_id", h.UpdateSubmission)
		admin.DELETE("/submissions/:submission_id", h.DeleteSubmission)
	}
}
