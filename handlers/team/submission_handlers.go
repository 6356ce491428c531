package team

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// Submit creates or replaces the team's submission for a round
// @Summary Submit work for a round
// @Tags Team
// @Accept json
// @Produce json
// @Param round_id path string true "Round ID"
// @Param submission body SubmitRequest true "Submission links"
// @Success 201 {object} models.Submission "first submission"
// @Success 200 {object} models.Submission "replaced submission"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /team/rounds/{round_id}/submission [post]
// @Security Bearer
func (h *Handler) Submit(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	sub, created, err := h.svc.Submissions.Submit(c.Request.Context(), actor, c.Param("round_id"), services.SubmissionRequest{
		FileURL:    req.FileURL,
		GithubLink: req.GithubLink,
		Overview:   req.Overview,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sub)
}

// GetSubmissions
// @Summary List the calling team's submissions with their scores
// @Tags Team
// @Produce json
// @Success 200 {array} services.SubmissionView
// @Router /team/submissions [get]
// @Security Bearer
func (h *Handler) GetSubmissions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	subs, err := h.svc.Submissions.ListTeamSubmissions(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetPairSubmissions
// @Summary List the submissions of the calling team and of its partner
// @Tags Team
// @Produce json
// @Success 200 {array} services.PartnerSubmission
// @Failure 404 {object} map[string]string
// @Router /team/pair/submissions [get]
// @Security Bearer
func (h *Handler) GetPairSubmissions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	subs, err := h.svc.Pairs.PartnerSubmissions(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}
