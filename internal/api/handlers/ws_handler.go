package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/pkg/response"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// WatchApplications godoc
// @Summary Stream review events
// @Description Upgrades to a websocket that receives one JSON event per review action.
// @Tags admin-applications
// @Security BearerAuth
// @Router /ws/applications [get]
func (h *EventsHandler) WatchApplications(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "event stream not available"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[events] websocket upgrade failed: %v", err)
		return
	}
	h.hub.Serve(conn)
}
