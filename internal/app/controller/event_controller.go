package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/messreview-backend/internal/middleware"
	ws "github.com/ikkim/messreview-backend/internal/websocket"
)

type EventController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewEventController accepts upgrades from allowedOrigins. Requests without
// an Origin header (non-browser clients) are accepted too.
func NewEventController(hub *ws.Hub, allowedOrigins []string) *EventController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &EventController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Stream upgrades to a websocket that receives menu change events
// GET /api/v1/ws
// The token may be passed as a query parameter, but it is never logged.
func (ctrl *EventController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// Anonymous viewers get events too
	userID, _ := middleware.GetUserID(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
