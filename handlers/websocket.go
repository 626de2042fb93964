package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/usecases"
	"github.com/Asadganteng/ruang-iklim-scada/ws"
)

// WebSocket message envelopes
type incomingMessage struct {
	Type string `json:"type"` // sensor_data | heartbeat
}

type sensorDataPayload struct {
	Type        string   `json:"type"`
	Timestamp   string   `json:"timestamp"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Light       *float64 `json:"light"`
	Sound       *float64 `json:"sound"`
}

type readingPush struct {
	Type string           `json:"type"`
	Data entities.Reading `json:"data"`
}

// WSHandler groups dependencies for websocket flows.
type WSHandler struct {
	hub      *ws.Hub
	readings *usecases.ReadingUseCase
	log      *zap.SugaredLogger
}

func NewWSHandler(hub *ws.Hub, readings *usecases.ReadingUseCase, log *zap.SugaredLogger) *WSHandler {
	return &WSHandler{hub: hub, readings: readings, log: log}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleSensorWS upgrades to websocket and reads sensor_data messages from a
// room sensor unit. Each accepted sample is persisted and pushed to
// subscribers.
// GET /ws/ingest
func (h *WSHandler) HandleSensorWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	remote := conn.RemoteAddr().String()
	h.log.Infow("sensor connected", "remote", remote)

	defer func() {
		_ = conn.Close()
		h.log.Infow("sensor disconnected", "remote", remote)
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Infow("sensor closed connection", "remote", remote)
			} else {
				h.log.Warnw("read error from sensor", "remote", remote, "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		// Peek type
		var base incomingMessage
		if err := json.Unmarshal(message, &base); err != nil {
			h.log.Warnw("invalid json from sensor", "remote", remote, "error", err)
			continue
		}

		switch base.Type {
		case "sensor_data":
			var payload sensorDataPayload
			if err := json.Unmarshal(message, &payload); err != nil {
				h.log.Warnw("invalid sensor_data payload", "remote", remote, "error", err)
				continue
			}
			reading := entities.Reading{
				Temperature: payload.Temperature,
				Humidity:    payload.Humidity,
				Light:       payload.Light,
				Sound:       payload.Sound,
			}
			if payload.Timestamp != "" {
				if ts, err := time.Parse(time.RFC3339, payload.Timestamp); err == nil {
					reading.Timestamp = ts
				}
			}
			if err := h.readings.Ingest(&reading); err != nil {
				h.log.Warnw("could not store sensor reading", "remote", remote, "error", err)
			}
		case "heartbeat":
			// No-op, keeps the connection warm
		default:
			h.log.Warnw("unknown message type from sensor", "remote", remote, "type", base.Type)
		}
	}
}

// HandleLiveWS upgrades to websocket and pushes every inserted reading to a
// dashboard client until the client disconnects.
// GET /ws/live
func (h *WSHandler) HandleLiveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	remote := conn.RemoteAddr().String()
	h.log.Infow("dashboard client connected", "remote", remote)

	sub := h.hub.Subscribe(64)
	closed := make(chan struct{})

	// Drain the client side only to learn when it goes away.
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		sub.Close()
		_ = conn.Close()
		h.log.Infow("dashboard client disconnected", "remote", remote)
	}()

	for {
		select {
		case <-closed:
			return
		case reading, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(readingPush{Type: "reading", Data: reading}); err != nil {
				h.log.Warnw("write to dashboard client failed", "remote", remote, "error", err)
				return
			}
		}
	}
}

// GetSubscriberCount handles GET /api/v1/feed/subscribers
func (h *WSHandler) GetSubscriberCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subscribers": h.hub.Count()})
}
