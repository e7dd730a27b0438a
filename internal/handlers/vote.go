package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotornot/internal/service"
)

type voteRequest struct {
	WinnerID string `json:"winnerId"`
	LoserID  string `json:"loserId"`
	UserID   string `json:"userId"`
}

type voteResponse struct {
	Success      bool `json:"success"`
	WinnerNewElo int  `json:"winnerNewElo"`
	LoserNewElo  int  `json:"loserNewElo"`
}

func (h HandlerSet) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.votes.Cast(c.Request.Context(), service.VoteInput{
		WinnerID: req.WinnerID,
		LoserID:  req.LoserID,
		VoterID:  req.UserID,
	})
	if err != nil {
		h.abort(c, err, "Failed to process vote")
		return
	}

	c.JSON(http.StatusOK, voteResponse{
		Success:      true,
		WinnerNewElo: result.WinnerNewRating,
		LoserNewElo:  result.LoserNewRating,
	})
}
