package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/requestdata"
	"github.com/vistral/rentals-backend/internal/sse"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*sse.SSEClient // key: UserID, one stream per user
}

func NewRealtimeHandler(log *logger.Logger, hub *sse.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

// GET /api/sse/stream
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}

	h.mu.Lock()
	if existing, ok := h.clients[rd.UserID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, rd.UserID)
	}
	client := h.hub.NewSSEClient(rd.UserID)
	h.clients[rd.UserID] = client
	h.mu.Unlock()

	h.log.Info("SSE stream open", "user_id", rd.UserID, "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[rd.UserID] == client {
		delete(h.clients, rd.UserID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

// POST /api/sse/subscribe
// body: { "channel": "property:PROP-001" }
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.clientAndChannel(c)
	if !ok {
		return
	}
	h.hub.AddChannel(client, channel)
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.clientAndChannel(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *RealtimeHandler) clientAndChannel(c *gin.Context) (*sse.SSEClient, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return nil, "", false
	}
	var req struct {
		Channel string `json:"channel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, "", false
	}
	h.mu.Lock()
	client, ok := h.clients[rd.UserID]
	h.mu.Unlock()
	if !ok {
		response.RespondError(c, http.StatusConflict, "no_stream", fmt.Errorf("no open SSE stream for this user"))
		return nil, "", false
	}
	return client, req.Channel, true
}
