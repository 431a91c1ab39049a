package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/middleware"
	"docuchat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers 200 with a reply for every pipeline outcome: a model
// answer, the fixed fallback phrase, or a diagnostic. Only bad input and
// store failures break that contract.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.chatService.Ask(c.Request.Context(), app.AskInput{
		UserID:  userID,
		Message: req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "message is required")
		default:
			response.Error(c, http.StatusInternalServerError, "chat failed")
		}
		return
	}

	response.OK(c, gin.H{"reply": reply})
}

// History returns the caller's persisted transcript. The optional limit
// query parameter caps the number of messages; the store clamps it.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	messages, err := h.chatService.History(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "load chat history failed")
		return
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}

	response.OK(c, gin.H{"messages": messages})
}
