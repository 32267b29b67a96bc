package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"bakery-assistant-api/dialogue"
	"bakery-assistant-api/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler exposes the order dialogue over HTTP. One POST per user
// turn; the controller owns all cart state.
type ChatHandler struct {
	Ctrl     *dialogue.Controller
	Sessions session.Store
	Log      *slog.Logger
}

func NewChatHandler(ctrl *dialogue.Controller, sessions session.Store, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{Ctrl: ctrl, Sessions: sessions, Log: logger.With("component", "chat")}
}

// Chat processes one user turn and returns the structured outcome
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
		Query     string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	out := h.Ctrl.Handle(c.Request.Context(), req.SessionID, req.Query)

	resp := gin.H{
		"session_id": req.SessionID,
		"agent":      "order",
		"intent":     out.Intent(),
		"facts":      out.Facts(),
	}
	reply := ""
	if cl, ok := out.(dialogue.Clarifying); ok {
		resp["clarification_question"] = cl.ClarificationQuestion()
		reply = cl.ClarificationQuestion()
	} else {
		reply = replyText(out)
	}

	// History is best effort: a failing store never fails the turn.
	now := time.Now()
	if err := h.Sessions.AppendTurn(c.Request.Context(), req.SessionID,
		session.Turn{Role: "user", Message: req.Query, Timestamp: now}); err != nil {
		h.Log.Warn("history append failed", "session_id", req.SessionID, "error", err)
	}
	if reply != "" {
		if err := h.Sessions.AppendTurn(c.Request.Context(), req.SessionID,
			session.Turn{Role: "assistant", Message: reply, Timestamp: now}); err != nil {
			h.Log.Warn("history append failed", "session_id", req.SessionID, "error", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// History returns the session's conversation turns
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("id")
	turns, err := h.Sessions.History(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"count":      len(turns),
		"history":    turns,
	})
}

// CartState reports the session's current cart phase
func (h *ChatHandler) CartState(c *gin.Context) {
	sessionID := c.Param("id")
	state := h.Ctrl.CartState(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"cart":       state,
	})
}

// replyText picks the most useful assistant line for the history log
// when the outcome is not a clarifying question.
func replyText(out dialogue.Outcome) string {
	facts := out.Facts()
	for _, key := range []string{"receipt_text", "preview_receipt_text", "note", "cart_summary"} {
		if v, ok := facts[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
