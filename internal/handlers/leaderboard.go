package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		h.abort(c, err, "Failed to fetch leaderboard")
		return
	}

	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			Rank:          e.Rank,
			ID:            e.Image.ID,
			URL:           e.Image.URL,
			ModelName:     e.Image.ModelName,
			ModelUsername: e.Image.ModelUsername,
			Elo:           e.Image.Rating,
			Wins:          e.Image.Wins,
			Losses:        e.Image.Losses,
			WinRate:       e.Image.WinRate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}
