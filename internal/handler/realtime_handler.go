package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusflow/ticketing/internal/realtime"
	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 30 * time.Second

// RealtimeHandler streams live check-ins to dashboards over SSE. Connecting
// joins one event's topic; disconnecting (or cancelling the request) leaves
// it. Watching a different event means reconnecting with its id.
type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func (h *RealtimeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/realtime/events/:id", h.Stream)
}

func (h *RealtimeHandler) Stream(c echo.Context) error {
	eventID := c.Param("id")
	if eventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Event id is required")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	sub := h.hub.Subscribe(eventID)
	defer h.hub.Unsubscribe(sub)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			// Comment frame keeps idle connections alive through proxies.
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case evt, ok := <-sub.C:
			if !ok {
				return nil
			}
			data, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: new-checkin\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
