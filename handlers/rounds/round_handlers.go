package rounds

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// ListRounds returns every round with its derived status
// @Summary List rounds
// @Tags Rounds
// @Produce json
// @Success 200 {array} services.RoundView
// @Failure 401 {object} map[string]string
// @Router /rounds [get]
// @Security Bearer
func (h *Handler) ListRounds(c *gin.Context) {
	rounds, err := h.svc.Rounds.ListRounds(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// GetActiveRound returns the round currently running
// @Summary Get the active round
// @Tags Rounds
// @Produce json
// @Success 200 {object} services.RoundView
// @Failure 404 {object} map[string]string
// @Router /rounds/active [get]
// @Security Bearer
func (h *Handler) GetActiveRound(c *gin.Context) {
	round, err := h.svc.Rounds.ActiveRound(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// GetRound
// @Summary Get a round
// @Tags Rounds
// @Produce json
// @Param id path string true "Round ID"
// @Success 200 {object} services.RoundView
// @Failure 404 {object} map[string]string
// @Router /rounds/{id} [get]
// @Security Bearer
func (h *Handler) GetRound(c *gin.Context) {
	round, err := h.svc.Rounds.GetRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// CreateRound
// @Summary Create a round
// @Tags Rounds
// @Accept json
// @Produce json
// @Param round body CreateRoundRequest true "Round to create"
// @Success 201 {object} services.RoundView
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rounds [post]
// @Security Bearer
func (h *Handler) CreateRound(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	round, err := h.svc.Rounds.CreateRound(c.Request.Context(), actor, services.CreateRoundRequest{
		RoundNumber:       req.RoundNumber,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		SubmissionEnabled: req.SubmissionEnabled,
		Instructions:      req.Instructions,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// UpdateRound starts, stops or toggles submissions on a round
// @Summary Drive the round lifecycle
// @Description start activates the round and fails with 409 while another round is active.
// @Description stop deactivates it. toggle flips submission_enabled.
// @Tags Rounds
// @Accept json
// @Produce json
// @Param id path string true "Round ID"
// @Param action body RoundActionRequest true "Lifecycle action"
// @Success 200 {object} services.RoundView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rounds/{id} [patch]
// @Security Bearer
func (h *Handler) UpdateRound(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req RoundActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrUnknownAction)
		return
	}

	ctx, roundID := c.Request.Context(), c.Param("id")
	var round *services.RoundView
	switch req.Action {
	case ActionStart:
		round, err = h.svc.Rounds.Activate(ctx, actor, roundID)
	case ActionStop:
		round, err = h.svc.Rounds.Deactivate(ctx, actor, roundID)
	case ActionToggle:
		round, err = h.svc.Rounds.ToggleSubmission(ctx, actor, roundID)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// ListSubtasks
// @Summary List the subtasks of a round
// @Tags Rounds
// @Produce json
// @Param id path string true "Round ID"
// @Success 200 {array} models.Subtask
// @Router /rounds/{id}/subtasks [get]
// @Security Bearer
func (h *Handler) ListSubtasks(c *gin.Context) {
	subtasks, err := h.svc.Rounds.ListSubtasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtasks)
}

// CreateSubtask
// @Summary Add a subtask to a round
// @Tags Rounds
// @Accept json
// @Produce json
// @Param id path string true "Round ID"
// @Param subtask body CreateSubtaskRequest true "Subtask"
// @Success 201 {object} models.Subtask
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/subtasks [post]
// @Security Bearer
func (h *Handler) CreateSubtask(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	subtask, err := h.svc.Rounds.CreateSubtask(c.Request.Context(), actor, c.Param("id"), services.CreateSubtaskRequest{
		Title:       req.Title,
		Description: req.Description,
		TrackID:     req.TrackID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

// SetSubtaskActive
// @Summary Enable or retire a subtask
// @Tags Rounds
// @Accept json
// @Produce json
// @Param id path string true "Subtask ID"
// @Param body body SubtaskActiveRequest true "Active flag"
// @Success 200 {object} models.Subtask
// @Failure 404 {object} map[string]string
// @Router /subtasks/{id} [patch]
// @Security Bearer
func (h *Handler) SetSubtaskActive(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req SubtaskActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	subtask, err := h.svc.Rounds.SetSubtaskActive(c.Request.Context(), actor, c.Param("id"), *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtask)
}
