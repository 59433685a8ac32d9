package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamline/teamline/internal/handlers/dto"
	"github.com/teamline/teamline/internal/models"
)

type MessageHandler struct {
	messages MessageStore
	log      *zap.SugaredLogger
}

func NewMessageHandler(messages MessageStore, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

// Send persists a message without broadcasting; the realtime path handles
// its own persistence and fan-out separately.
func (h *MessageHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	teamID, err := parseObjectID(req.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	msg := &models.Message{
		TeamID:    teamID,
		Username:  req.Username,
		Message:   req.Message,
		Timestamp: time.Now(),
	}

	if err := h.messages.InsertMessage(c.Request.Context(), msg); err != nil {
		h.log.Errorw("message send failed", "teamId", req.TeamID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully"})
}

// History returns a team's messages oldest first.
func (h *MessageHandler) History(c *gin.Context) {
	teamID, err := parseObjectID(c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teamId"})
		return
	}

	messages, err := h.messages.TeamMessages(c.Request.Context(), teamID)
	if err != nil {
		h.log.Errorw("message history failed", "teamId", teamID.Hex(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
