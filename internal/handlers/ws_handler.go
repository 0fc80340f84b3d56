package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fincoach/internal/realtime"
	"fincoach/internal/services"
)

// WSHandler upgrades authenticated connections and streams unread
// alerts plus any generated afterwards.
type WSHandler struct {
	hub          *realtime.Hub
	alertService services.AlertServicer
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *realtime.Hub, alertService services.AlertServicer) *WSHandler {
	return &WSHandler{
		hub:          hub,
		alertService: alertService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection, replays the user's unread alerts and
// then holds the connection open for pushed alerts. The read loop only
// exists to detect the close.
func (h *WSHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.hub.AddClient(userID, conn)

	unread := false
	if alerts, err := h.alertService.GetAlerts(userID, &unread, 0); err == nil {
		h.hub.PushAlerts(userID, alerts)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.RemoveClient(userID, conn)
			return
		}
	}
}
