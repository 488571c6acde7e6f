package handler

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/api/middleware"
	"Chillz/internal/pkg/response"
	"Chillz/internal/service"

	"github.com/gin-gonic/gin"
)

type VibeCheckHandler struct {
	vibeCheckService service.VibeCheckService
}

func NewVibeCheckHandler(vibeCheckService service.VibeCheckService) *VibeCheckHandler {
	return &VibeCheckHandler{vibeCheckService: vibeCheckService}
}

// Send 发起 Vibe Check
func (s *VibeCheckHandler) Send(c *gin.Context) {
	var req dto.SendVibeCheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.vibeCheckService.Send(c, uid, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Accept 接受请求，返回新会话 ID
func (s *VibeCheckHandler) Accept(c *gin.Context) {
	checkID := c.Param("check_id")
	if checkID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.vibeCheckService.Accept(c, uid, checkID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Decline 拒绝请求
func (s *VibeCheckHandler) Decline(c *gin.Context) {
	checkID := c.Param("check_id")
	if checkID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	if err := s.vibeCheckService.Decline(c, uid, checkID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Inbox 待处理收件箱
func (s *VibeCheckHandler) Inbox(c *gin.Context) {
	uid := middleware.CurrentUID(c)

	res, err := s.vibeCheckService.Inbox(c, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Outbox 已发送且待处理的目标用户集合
func (s *VibeCheckHandler) Outbox(c *gin.Context) {
	uid := middleware.CurrentUID(c)

	res, err := s.vibeCheckService.Outbox(c, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
