package teams

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// ListTeams
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param track_id query string false "Only teams of this track"
// @Success 200 {array} models.Team
// @Router /teams [get]
// @Security Bearer
func (h *Handler) ListTeams(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	teams, err := h.svc.Teams.ListTeams(c.Request.Context(), actor, c.Query("track_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam
// @Summary Get a team with its accessible rounds
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} models.Team
// @Failure 404 {object} map[string]string
// @Router /teams/{id} [get]
// @Security Bearer
func (h *Handler) GetTeam(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	team, err := h.svc.Teams.GetTeam(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Shortlist
// @Summary Qualify a team for a round
// @Description Access is only ever added.
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param body body ShortlistRequest true "Round to open"
// @Success 200 {object} models.Team
// @Failure 404 {object} map[string]string
// @Router /teams/{id}/shortlist [post]
// @Security Bearer
func (h *Handler) Shortlist(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req ShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	team, err := h.svc.Teams.Shortlist(c.Request.Context(), actor, c.Param("id"), req.RoundID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// SetLocked
// @Summary Lock or unlock a team's submissions
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param body body LockRequest true "Lock flag"
// @Success 200 {object} models.Team
// @Failure 404 {object} map[string]string
// @Router /teams/{id}/lock [patch]
// @Security Bearer
func (h *Handler) SetLocked(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	team, err := h.svc.Teams.SetLocked(c.Request.Context(), actor, c.Param("id"), *req.Locked)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// ImportTeams
// @Summary Import teams from an xlsx workbook
// @Description Every sheet needs a header row with a name column and optionally a track column.
// @Tags Teams
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} map[string]string
// @Router /teams/import [post]
// @Security Bearer
func (h *Handler) ImportTeams(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrMissingFile)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	result, err := h.svc.Teams.ImportTeams(c.Request.Context(), actor, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
