package team

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// GetMe returns the calling team with its accessible rounds
// @Summary Get the calling team
// @Tags Team
// @Produce json
// @Success 200 {object} models.Team
// @Router /team/me [get]
// @Security Bearer
func (h *Handler) GetMe(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	team, err := h.svc.Teams.GetTeam(c.Request.Context(), actor, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// GetDashboard
// @Summary Get the calling team's dashboard
// @Description The current round is the active round when the team may access it. total_score covers every accessible round.
// @Tags Team
// @Produce json
// @Success 200 {object} services.Dashboard
// @Failure 404 {object} map[string]string
// @Router /team/dashboard [get]
// @Security Bearer
func (h *Handler) GetDashboard(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	dashboard, err := h.svc.Teams.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetRounds
// @Summary List the rounds the calling team may access
// @Tags Team
// @Produce json
// @Success 200 {array} services.RoundView
// @Router /team/rounds [get]
// @Security Bearer
func (h *Handler) GetRounds(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	rounds, err := h.svc.Rounds.TeamRounds(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// GetRandomSubtasks returns the team's displayed batch, drawing it on the first call
// @Summary Get the displayed subtasks
// @Description Repeated calls return the same subtasks in the same order.
// @Tags Team
// @Produce json
// @Param round_id path string true "Round ID"
// @Success 200 {object} SubtasksResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /team/rounds/{round_id}/subtasks/random [get]
// @Security Bearer
func (h *Handler) GetRandomSubtasks(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	subtasks, err := h.svc.Displays.GetOrAssign(c.Request.Context(), actor, c.Param("round_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubtasksResponse{Subtasks: subtasks})
}

// SelectSubtask
// @Summary Select one of the displayed subtasks
// @Description A selection is final.
// @Tags Team
// @Accept json
// @Produce json
// @Param round_id path string true "Round ID"
// @Param selection body SelectSubtaskRequest true "Subtask to select"
// @Success 200 {object} models.TeamSubtaskSelection
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /team/rounds/{round_id}/select [post]
// @Security Bearer
func (h *Handler) SelectSubtask(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req SelectSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	selection, err := h.svc.Selections.Select(c.Request.Context(), actor, c.Param("round_id"), req.SubtaskID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

// GetSelection
// @Summary Get the calling team's selection for a round
// @Tags Team
// @Produce json
// @Param round_id path string true "Round ID"
// @Success 200 {object} models.TeamSubtaskSelection
// @Failure 404 {object} map[string]string
// @Router /team/rounds/{round_id}/selection [get]
// @Security Bearer
func (h *Handler) GetSelection(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	selection, err := h.svc.Selections.Current(c.Request.Context(), actor, c.Param("round_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if selection == nil {
		response.Error(c, http.StatusNotFound, ErrNoSelection)
		return
	}
	c.JSON(http.StatusOK, selection)
}

// GetOptions
// @Summary Get the options published to the calling team
// @Tags Team
// @Produce json
// @Param round_id path string true "Round ID"
// @Success 200 {object} services.OptionsView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /team/rounds/{round_id}/options [get]
// @Security Bearer
func (h *Handler) GetOptions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	view, err := h.svc.Options.GetOptions(c.Request.Context(), actor, c.Param("round_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChooseOption
// @Summary Choose one of the published options
// @Description In pair mode the priority team chooses first and the paired team takes the other option.
// @Tags Team
// @Accept json
// @Produce json
// @Param round_id path string true "Round ID"
// @Param choice body ChooseOptionRequest true "Option to choose"
// @Success 200 {object} models.RoundOptions
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /team/rounds/{round_id}/options/choose [post]
// @Security Bearer
func (h *Handler) ChooseOption(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req ChooseOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	row, err := h.svc.Options.ChooseOption(c.Request.Context(), actor, c.Param("round_id"), req.SubtaskID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
