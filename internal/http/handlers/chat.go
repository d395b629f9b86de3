package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/http/response"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
	"github.com/wanderly/wanderly-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// POST /api/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req services.ChatSend
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	turn, err := h.chatService.SendMessage(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, turn)
}

// GET /api/chat/sessions?page=&limit=
func (h *ChatHandler) ListSessions(c *gin.Context) {
	p := pageParams(c)
	rows, total, err := h.chatService.ListSessions(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// GET /api/chat/sessions/:id/messages?page=&limit=
func (h *ChatHandler) ListMessages(c *gin.Context) {
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p := pageParams(c)
	rows, total, err := h.chatService.ListMessages(c.Request.Context(), sessionID, p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondPage(c, rows, p, total)
}

// DELETE /api/chat/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.chatService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
