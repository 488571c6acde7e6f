package handler

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/api/middleware"
	"Chillz/internal/pkg/response"
	"Chillz/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// OpenDirect 按用户名打开或创建单聊
func (s *ChatHandler) OpenDirect(c *gin.Context) {
	var req dto.OpenDirectChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.chatService.OpenOrCreateDirect(c, uid, req.TargetUsername)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListChats 会话列表，按最近活跃排序
func (s *ChatHandler) ListChats(c *gin.Context) {
	uid := middleware.CurrentUID(c)

	res, err := s.chatService.ListChats(c, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Messages 拉取会话全量消息
func (s *ChatHandler) Messages(c *gin.Context) {
	chatID := c.Param("chat_id")
	if chatID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.chatService.Messages(c, uid, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendMessage 发送消息
func (s *ChatHandler) SendMessage(c *gin.Context) {
	chatID := c.Param("chat_id")
	if chatID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	req.ChatID = chatID

	uid := middleware.CurrentUID(c)
	res, err := s.chatService.SendMessage(c, uid, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
