package handler

import (
	"net/http"

	"github.com/kmabbott81/ai-hub-production/internal/application"
	"github.com/kmabbott81/ai-hub-production/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	dispatch *application.DispatchService
	enabled  []string
}

func NewChatHandler(dispatch *application.DispatchService, enabled []string) *ChatHandler {
	return &ChatHandler{dispatch: dispatch, enabled: enabled}
}

// Providers reports which vendors this deployment can dispatch to.
func (h *ChatHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.enabled})
}

// Dispatch runs one turn: append the user message, fan out, return every
// provider's outcome. Providers defaults to everything enabled.
func (h *ChatHandler) Dispatch(c *gin.Context) {
	var req struct {
		ThreadID  uint     `json:"thread_id" binding:"required"`
		Content   string   `json:"content" binding:"required"`
		Providers []string `json:"providers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thread_id and content are required"})
		return
	}

	providers := req.Providers
	if len(providers) == 0 {
		providers = h.enabled
	}

	result, err := h.dispatch.DispatchTurn(c.Request.Context(), middleware.UserID(c), req.ThreadID, req.Content, providers)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
