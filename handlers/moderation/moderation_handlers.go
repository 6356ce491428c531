package moderation

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// GetScore
// @Summary Get a recorded score
// @Tags Moderation
// @Produce json
// @Param score_id path string true "Score ID"
// @Success 200 {object} models.Score
// @Failure 404 {object} map[string]string
// @Router /admin/scores/{score_id} [get]
// @Security Bearer
func (h *Handler) GetScore(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	score, err := h.svc.Scores.GetScore(c.Request.Context(), actor, c.Param("score_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// UpdateScore
// @Summary Correct a recorded score
// @Description The fields must match the scoring shape of the submission's round.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param score_id path string true "Score ID"
// @Param score body UpdateScoreRequest true "Fields to correct"
// @Success 200 {object} ScoreResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/scores/{score_id} [patch]
// @Security Bearer
func (h *Handler) UpdateScore(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	score, err := h.svc.Scores.UpdateScore(c.Request.Context(), actor, c.Param("score_id"), services.ScoreUpdate{
		Score:        req.Score,
		SecScore:     req.SecScore,
		FacultyScore: req.FacultyScore,
		Remarks:      req.Remarks,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoreResponse{Message: MsgScoreUpdated, Score: score})
}

// DeleteScore
// @Summary Delete a recorded score
// @Tags Moderation
// @Produce json
// @Param score_id path string true "Score ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/scores/{score_id} [delete]
// @Security Bearer
func (h *Handler) DeleteScore(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if err := h.svc.Scores.DeleteScore(c.Request.Context(), actor, c.Param("score_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": MsgScoreDeleted})
}

// GetSubmission
// @Summary Get a submission
// @Tags Moderation
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 404 {object} map[string]string
// @Router /admin/submissions/{submission_id} [get]
// @Security Bearer
func (h *Handler) GetSubmission(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	sub, err := h.svc.Submissions.GetSubmission(c.Request.Context(), actor, c.Param("submission_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// UpdateSubmission
// @Summary Correct a submission
// @Description One of file_url or github_link must remain set.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Param submission body UpdateSubmissionRequest true "Fields to correct"
// @Success 200 {object} SubmissionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/submissions/{submission_id} [patch]
// @Security Bearer
func (h *Handler) UpdateSubmission(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	sub, err := h.svc.Submissions.UpdateSubmission(c.Request.Context(), actor, c.Param("submission_id"), services.SubmissionUpdate{
		FileURL:    req.FileURL,
		GithubLink: req.GithubLink,
		Overview:   req.Overview,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubmissionResponse{Message: MsgSubmissionUpdated, Submission: sub})
}

// DeleteSubmission
// @Summary Delete a submission and its scores
// @Tags Moderation
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/submissions/{submission_id} [delete]
// @Security Bearer
func (h *Handler) DeleteSubmission(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if err := h.svc.Submissions.DeleteSubmission(c.Request.Context(), actor, c.Param("submission_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": MsgSubmissionDeleted})
}
