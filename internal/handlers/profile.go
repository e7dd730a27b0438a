package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Profile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.abort(c, err, "Failed to fetch profile data")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile))
}
