package handler

import (
	"alumnihub/backend/internal/livehub"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(h.origins) == 0 || slices.Contains(h.origins, origin)
		},
	}
}

// ServeNotificationsWS upgrades to a push-only socket that receives every
// notification stored for the caller.
func (h *Handler) ServeNotificationsWS(c *gin.Context) {
	if h.Hub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Live notifications are not available"})
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := livehub.NewWebSocketClient(callerID(c), conn, h.Hub, h.log)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
