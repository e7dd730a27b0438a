package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (h HandlerSet) Live(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.allowOrigin,
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger(c).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.Serve(conn)
}

func (h HandlerSet) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowCORSOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowCORSOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
