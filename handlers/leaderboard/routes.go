package leaderboard

import (
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *services.Services
}

// RegisterRoutes registers the leaderboard routes, open to every authenticated actor
func RegisterRoutes(r *gin.RouterGroup, svc *services.Services) {
	h := &Handler{svc: svc}

	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/leaderboard/tracks", h.GetLeaderboardByTrack)
	r.GET("/leaderboard/export", h.ExportLeaderboard)
}
