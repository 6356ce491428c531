package rounds

import (
	"net/http"

	"hackathon-api/middleware"
	"hackathon-api/services"
	"hackathon-api/utils/response"

	"github.com/gin-gonic/gin"
)

// ListPairs
// @Summary List the pairs anchored to a round
// @Tags Pairs
// @Produce json
// @Param id path string true "Anchor round ID"
// @Success 200 {array} models.Pairing
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/pairs [get]
// @Security Bearer
func (h *Handler) ListPairs(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	pairs, err := h.svc.Pairs.ListPairs(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

// CreatePair
// @Summary Pair two teams of the same track
// @Tags Pairs
// @Accept json
// @Produce json
// @Param id path string true "Anchor round ID"
// @Param pair body CreatePairRequest true "Teams to pair"
// @Success 201 {object} models.Pairing
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rounds/{id}/pairs [post]
// @Security Bearer
func (h *Handler) CreatePair(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req CreatePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	pair, err := h.svc.Pairs.CreatePair(c.Request.Context(), actor, c.Param("id"), req.TeamAID, req.TeamBID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

// RemovePair
// @Summary Remove a pair
// @Description Both teams return to team mode for the pairing stage round and lose any choice made there.
// @Tags Pairs
// @Param id path string true "Anchor round ID"
// @Param pair_id path string true "Pair ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/pairs/{pair_id} [delete]
// @Security Bearer
func (h *Handler) RemovePair(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if err := h.svc.Pairs.RemovePair(c.Request.Context(), actor, c.Param("id"), c.Param("pair_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": MsgPairRemoved})
}

// AllocatePairs
// @Summary Publish shared options to paired teams
// @Description Every allocation is applied or none is.
// @Tags Pairs
// @Accept json
// @Produce json
// @Param id path string true "Pairing stage round ID"
// @Param allocations body AllocatePairsRequest true "Two subtasks per pair"
// @Success 200 {object} CountResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/allocate-pairs [post]
// @Security Bearer
func (h *Handler) AllocatePairs(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req AllocatePairsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	allocations := make([]services.PairAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, services.PairAllocation{PairID: a.PairID, SubtaskIDs: a.SubtaskIDs})
	}

	count, err := h.svc.Pairs.AllocatePairs(c.Request.Context(), actor, c.Param("id"), allocations)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}
