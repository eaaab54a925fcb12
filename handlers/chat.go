package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookingagent/models"
	"bookingagent/services/agent"
	"bookingagent/services/intelligence"
	"bookingagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultSessionID = "default"

// ConversationEngine runs one conversation step.
type ConversationEngine interface {
	ProcessMessage(ctx context.Context, sessionID, text string) (*agent.Result, error)
}

type ChatHandler struct {
	engine ConversationEngine
	store  intelligence.ContextStore
}

func NewChatHandler(engine ConversationEngine, store intelligence.ContextStore) *ChatHandler {
	return &ChatHandler{engine: engine, store: store}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	logger := getLogger(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	res, err := h.engine.ProcessMessage(c.Request.Context(), req.SessionID, req.Message)
	if errors.Is(err, agent.ErrInvalidInput) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid message", err.Error())
		return
	}
	if err != nil {
		logger.Error("Chat failed", zap.String("sessionId", req.SessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error processing message", err.Error())
		return
	}

	resp := models.ChatResponse{
		Response:  res.Response,
		SessionID: req.SessionID,
		State:     res.State,
		Warnings:  res.Warnings,
		Timestamp: time.Now(),
	}
	if res.State == models.StateCollectingInfo {
		resp.SuggestedSlots = res.Context.SuggestedSlots
	}
	if res.State == models.StateConfirmingBooking {
		resp.SelectedSlot = res.Context.SelectedSlot
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession handles GET /api/sessions/:id.
func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	sc, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load session", err.Error())
		return
	}
	if sc == nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"context":     sc,
		"lastUpdated": sc.UpdatedAt,
	})
}

// ClearSession handles DELETE /api/sessions/:id.
func (h *ChatHandler) ClearSession(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	sc, err := h.store.Get(ctx, sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load session", err.Error())
		return
	}
	if sc == nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}
	if err := h.store.Clear(ctx, sessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to clear session", err.Error())
		return
	}

	getLogger(c).Info("Session cleared", zap.String("sessionId", sessionID))
	c.JSON(http.StatusOK, gin.H{"message": "Session cleared"})
}

// ListSessions handles GET /api/sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	ids, err := h.store.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list sessions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": ids, "count": len(ids)})
}
