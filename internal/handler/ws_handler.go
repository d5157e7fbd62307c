package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/config"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/service"
	ws "github.com/testhive/testhive-backend/internal/websocket"
)

// maxProctorPayloadBytes caps a single proctor event. The payload is stored
// verbatim as JSONB, so an unbounded message would be an unbounded row.
const maxProctorPayloadBytes = 4096

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the proctor-event WebSocket stream.
type WSHandler struct {
	rdb         *redis.Client
	testService *service.TestService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, testService *service.TestService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		testService: testService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// ProctorStream godoc
// WS /ws/v1/test/:test_id/proctor?token=...
// Upgrades to WebSocket and ingests proctoring events for the duration of a
// student's test attempt. Events are queued to Redis; a background worker
// batches them into Postgres so a slow database never backpressures the
// exam client.
func (h *WSHandler) ProctorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test ID"})
		return
	}

	// The test must exist before we accept a stream for it.
	if _, err := h.testService.GetForRole(c.Request.Context(), testID, claims.Role); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("student_id", claims.UserID.String()).
		Str("test_id", testID.String()).
		Logger()

	wsLog.Info().Msg("Proctor stream connected")

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionEvent:
			h.handleEvent(conn, wsLog, testID, claims.UserID, &msg)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleEvent validates and queues one proctor event for persistence.
func (h *WSHandler) handleEvent(conn *websocket.Conn, wsLog zerolog.Logger, testID, studentID uuid.UUID, msg *ws.RequestPayload) {
	ctx := context.Background()

	if msg.Payload == "" {
		ws.WriteError(conn, "payload is required")
		return
	}
	if len(msg.Payload) > maxProctorPayloadBytes {
		ws.WriteError(conn, "payload too large")
		return
	}
	if !json.Valid([]byte(msg.Payload)) {
		ws.WriteError(conn, "payload must be valid JSON")
		return
	}

	data, _ := json.Marshal(map[string]interface{}{
		"test_id":    testID.String(),
		"student_id": studentID.String(),
		"timestamp":  time.Now().Unix(),
		"payload":    msg.Payload,
	})
	if err := h.rdb.RPush(ctx, config.WorkerKey.ProctorEventsQueue, data).Err(); err != nil {
		wsLog.Error().Err(err).Msg("Failed to queue proctor event")
		ws.WriteError(conn, "event not accepted")
		return
	}

	// Fan out to any live monitoring subscriber. Best effort: durable
	// persistence already happened via the queue.
	h.rdb.Publish(ctx, config.CacheKey.ProctorChannel(testID.String()), data)

	ws.WriteTyped(conn, ws.AcceptedResponse{Event: ws.EventAccepted})
}
