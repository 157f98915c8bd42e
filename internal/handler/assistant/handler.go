package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/middleware"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/action"
	"github.com/medhub/ambulatorio-api/internal/service/assistant"
)

type Handler struct {
	assistant *assistant.Service
	executor  *action.Executor
}

func NewHandler(assistantSvc *assistant.Service, executor *action.Executor) *Handler {
	return &Handler{assistant: assistantSvc, executor: executor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/assistant")
	{
		ai.POST("/chat", h.chat)
		ai.GET("/sessions", h.sessions)
		ai.GET("/sessions/:id", h.history)
		ai.DELETE("/sessions/:id", h.deleteSession)
		ai.DELETE("/history", h.clearHistory)
		ai.GET("/undo", h.listUndo)
		ai.POST("/undo", h.undo)
	}
}

func (h *Handler) chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Ambulatorio.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	claims := middleware.CurrentClaims(c)
	if claims == nil || !claims.HasAmbulatorio(req.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to this ambulatorio is not allowed"})
		return
	}

	resp, err := h.assistant.HandleMessage(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) sessions(c *gin.Context) {
	site := model.Ambulatorio(c.Query("ambulatorio"))
	if !site.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	sessions, err := h.assistant.Sessions(c.Request.Context(), middleware.CurrentUser(c), site)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) history(c *gin.Context) {
	messages, err := h.assistant.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.assistant.DeleteSession(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

func (h *Handler) clearHistory(c *gin.Context) {
	site := model.Ambulatorio(c.Query("ambulatorio"))
	if !site.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	if err := h.assistant.ClearHistory(c.Request.Context(), middleware.CurrentUser(c), site); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

type undoRequest struct {
	Ambulatorio model.Ambulatorio `json:"ambulatorio" binding:"required"`
	ActionID    string            `json:"action_id"`
}

// undo reverses the latest (or a specific) ledger entry without going through
// the conversational flow.
func (h *Handler) undo(c *gin.Context) {
	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Ambulatorio.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	result := h.executor.Execute(c.Request.Context(), middleware.CurrentUser(c), req.Ambulatorio, &model.AIAction{
		Action: model.ActionUndo,
		Params: mustParams(map[string]interface{}{"action_id": req.ActionID}),
	})
	c.JSON(http.StatusOK, result)
}

func mustParams(params map[string]interface{}) json.RawMessage {
	raw, _ := json.Marshal(params)
	return raw
}

func (h *Handler) listUndo(c *gin.Context) {
	site := model.Ambulatorio(c.Query("ambulatorio"))
	if !site.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	result := h.executor.Execute(c.Request.Context(), middleware.CurrentUser(c), site, &model.AIAction{
		Action: model.ActionListUndo,
	})
	c.JSON(http.StatusOK, result)
}
