package handler

import (
	"net/http"
	"time"

	"ambulance-request-backend/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	heartbeatInterval = 15 * time.Second
	// Same value gin-contrib/sse writes, so rendering an event does not change it.
	eventStreamContentType = "text/event-stream;charset=utf-8"
)

// EventsHandler streams request events to dashboards as server-sent events.
type EventsHandler struct {
	bus       events.Bus
	heartbeat time.Duration
}

func NewEventsHandler(bus events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus, heartbeat: heartbeatInterval}
}

// HospitalEvents streams every request event for the hospital in the path
func (h *EventsHandler) HospitalEvents(c *gin.Context) {
	id, ok := parseID(c, "hospital")
	if !ok {
		return
	}
	h.stream(c, events.HospitalChannel(id))
}

// UserEvents streams the status of the user's own requests
func (h *EventsHandler) UserEvents(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	h.stream(c, events.UserChannel(id))
}

func (h *EventsHandler) stream(c *gin.Context, channel string) {
	ctx := c.Request.Context()

	subscription, err := h.bus.Subscribe(ctx, channel)
	if err != nil {
		respondError(c, err)
		return
	}

	// Headers go out with the first flush, before any event renders its own.
	c.Header("Content-Type", eventStreamContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	log.Debug().Str("channel", channel).Msg("event stream opened")
	defer log.Debug().Str("channel", channel).Msg("event stream closed")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		case event, ok := <-subscription:
			if !ok {
				return
			}
			c.SSEvent(event.Type, event)
			c.Writer.Flush()
		}
	}
}
