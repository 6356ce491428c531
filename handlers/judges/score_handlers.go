package judges

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

func (r ScoreRequest) payload() services.ScorePayload {
	return services.ScorePayload{
		Score:        r.Score,
		SecScore:     r.SecScore,
		FacultyScore: r.FacultyScore,
		Remarks:      r.Remarks,
	}
}

// ScoreTeam records the calling judge's score for a team's submission in a round
// @Summary Score a team for a round
// @Description Creates the score or replaces the judge's previous one.
// @Tags Judging
// @Accept json
// @Produce json
// @Param round_id path string true "Round ID"
// @Param team_id path string true "Team ID"
// @Param score body ScoreRequest true "Score"
// @Success 200 {object} models.Score
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string "the team has not submitted"
// @Router /judge/rounds/{round_id}/teams/{team_id}/score [post]
// @Security Bearer
func (h *Handler) ScoreTeam(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	score, err := h.svc.Scores.ScoreTeamRound(c.Request.Context(), actor, c.Param("round_id"), c.Param("team_id"), req.payload())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// ScoreSubmission
// @Summary Score a submission
// @Tags Judging
// @Accept json
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Param score body ScoreRequest true "Score"
// @Success 200 {object} models.Score
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /judge/submissions/{submission_id}/score [put]
// @Security Bearer
func (h *Handler) ScoreSubmission(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	score, err := h.svc.Scores.UpsertScore(c.Request.Context(), actor, c.Param("submission_id"), req.payload())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// GetAssignedTeams
// @Summary List the teams the calling judge scores in a round
// @Tags Judging
// @Produce json
// @Param round_id path string true "Round ID"
// @Success 200 {array} models.Team
// @Router /judge/rounds/{round_id}/teams [get]
// @Security Bearer
func (h *Handler) GetAssignedTeams(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	teams, err := h.svc.Scores.AssignedTeams(c.Request.Context(), actor, c.Param("round_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetEvaluation
// @Summary Open a team's work in a round
// @Description Returns the round, the team with its track, the selected subtask, the submission and the calling judge's score so far. round_id may be "active".
// @Tags Judging
// @Produce json
// @Param round_id path string true "Round ID or active"
// @Param team_id path string true "Team ID"
// @Success 200 {object} services.Evaluation
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /judge/rounds/{round_id}/teams/{team_id} [get]
// @Security Bearer
func (h *Handler) GetEvaluation(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	eval, err := h.svc.Scores.Evaluation(c.Request.Context(), actor, c.Param("round_id"), c.Param("team_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

// AssignJudge
// @Summary Assign a judge to a team
// @Description Without round_id the assignment covers every round.
// @Tags Judging
// @Accept json
// @Produce json
// @Param judge_id path string true "Judge ID"
// @Param assignment body AssignJudgeRequest true "Assignment"
// @Success 201 {object} models.JudgeAssignment
// @Failure 404 {object} map[string]string
// @Router /judges/{judge_id}/assignments [post]
// @Security Bearer
func (h *Handler) AssignJudge(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req AssignJudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	assignment, err := h.svc.Scores.AssignJudge(c.Request.Context(), actor, c.Param("judge_id"), req.TeamID, req.RoundID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}
