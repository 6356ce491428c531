package rounds

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// ListAssignments
// @Summary List the options published for a round
// @Tags Options
// @Produce json
// @Param id path string true "Round ID"
// @Success 200 {array} models.RoundOptions
// @Router /rounds/{id}/team-subtasks [get]
// @Security Bearer
func (h *Handler) ListAssignments(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	rows, err := h.svc.Options.ListAssignments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// AssignTeamOptions
// @Summary Publish options to single teams
// @Description Choices already made are kept.
// @Tags Options
// @Accept json
// @Produce json
// @Param id path string true "Round ID"
// @Param assignments body AssignTeamOptionsRequest true "Options per team"
// @Success 200 {object} CountResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/team-subtasks [post]
// @Security Bearer
func (h *Handler) AssignTeamOptions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req AssignTeamOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	assignments := make([]services.TeamAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments = append(assignments, services.TeamAssignment{TeamID: a.TeamID, SubtaskIDs: a.SubtaskIDs})
	}

	count, err := h.svc.Options.AssignTeamOptions(c.Request.Context(), actor, c.Param("id"), assignments)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}
