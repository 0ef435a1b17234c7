package controller

import (
	"ctchen222/tictactoe-bot/internal/api/response"
	"ctchen222/tictactoe-bot/internal/api/service"
	"ctchen222/tictactoe-bot/internal/chat"
	"ctchen222/tictactoe-bot/pkg/proto"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ChatIDKey is the gin context key holding the authenticated chat ID.
const ChatIDKey = "chat_id"

// ChatController handles chat-related HTTP requests.
type ChatController struct {
	chatService service.ChatService
}

// NewChatController creates a new ChatController.
func NewChatController(chatService service.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// GuestLogin handles guest login, returning a generated chat ID and its token.
func (cc *ChatController) GuestLogin(c *gin.Context) {
	resp, err := cc.chatService.GuestLogin(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, resp)
}

// RequireToken rejects requests without a valid bearer token.
func (cc *ChatController) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.AbortResponse(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		chatID, err := cc.chatService.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.AbortResponse(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ChatIDKey, chatID)
		c.Next()
	}
}

// PostUpdate handles one update for the authenticated chat.
func (cc *ChatController) PostUpdate(c *gin.Context) {
	var upd proto.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	chatID := c.GetString(ChatIDKey)
	reply, err := cc.chatService.HandleUpdate(c.Request.Context(), chatID, &upd)
	if errors.Is(err, chat.ErrInvalidUpdate) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to handle update", "chat.id", chatID, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to handle update")
		return
	}

	response.SuccessResponse(c, reply)
}
