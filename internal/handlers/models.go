package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Models returns the next pair to compare. Fewer than two entries means the
// store does not hold enough images; the client shows a notice for that.
func (h HandlerSet) Models(c *gin.Context) {
	pair, err := h.pairs.Next(c.Request.Context())
	if err != nil {
		h.abort(c, err, "Failed to fetch images")
		return
	}

	out := make([]imageResponse, 0, len(pair.Images))
	for _, img := range pair.Images {
		out = append(out, newImageResponse(img))
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}
