package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/service"
)

// ConversationController handles the diagnostic chat endpoints.
type ConversationController struct {
	conversationService service.ConversationService
}

func NewConversationController(conversationService service.ConversationService) *ConversationController {
	return &ConversationController{conversationService: conversationService}
}

// GetActiveConversation handles GET /api/v1/active-conversation. A 404 is the
// normal "nothing to resume" signal, not a failure.
func (cc *ConversationController) GetActiveConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	active, err := cc.conversationService.ActiveConversation(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveConversation) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "No active conversation"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load conversation"})
		return
	}
	c.JSON(http.StatusOK, active)
}

// Chat handles POST /api/v1/chat.
func (cc *ConversationController) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ConversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input"})
		return
	}

	resp, err := cc.conversationService.Advance(userID, req.ConversationID, req.UserAnswer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
		case errors.Is(err, service.ErrNoPendingQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "No pending question to answer"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process answer"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
