package leaderboard

import (
	"bytes"
	"fmt"
	"net/http"

	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetLeaderboard
// @Summary Get the leaderboard
// @Description Teams ranked by cumulative score. Tied teams share a rank.
// @Tags Leaderboard
// @Produce json
// @Param track_id query string false "Rank only the teams of this track"
// @Success 200 {array} services.LeaderboardEntry
// @Failure 404 {object} map[string]string
// @Router /leaderboard [get]
// @Security Bearer
func (h *Handler) GetLeaderboard(c *gin.Context) {
	entries, err := h.svc.Leaderboard.Leaderboard(c.Request.Context(), c.Query("track_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetLeaderboardByTrack
// @Summary Get one leaderboard per track
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} map[string][]services.LeaderboardEntry
// @Router /leaderboard/tracks [get]
// @Security Bearer
func (h *Handler) GetLeaderboardByTrack(c *gin.Context) {
	grouped, err := h.svc.Leaderboard.ByTrack(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// ExportLeaderboard
// @Summary Download the leaderboard as an xlsx workbook
// @Tags Leaderboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /leaderboard/export [get]
// @Security Bearer
func (h *Handler) ExportLeaderboard(c *gin.Context) {
	// Buffer the workbook so a failure can still be answered as JSON
	var buf bytes.Buffer
	if err := h.svc.Leaderboard.Export(c.Request.Context(), &buf); err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s.xlsx", h.svc.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
