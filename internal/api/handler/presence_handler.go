package handler

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/api/middleware"
	"Chillz/internal/pkg/response"
	"Chillz/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presenceService service.PresenceService
}

func NewPresenceHandler(presenceService service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// SetState 上报在线状态，客户端按心跳频率重复调用
func (s *PresenceHandler) SetState(c *gin.Context) {
	var req dto.SetPresenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.presenceService.SetState(c, uid, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMany 批量查询在线状态，uids 逗号分隔
func (s *PresenceHandler) GetMany(c *gin.Context) {
	raw := c.Query("uids")
	if raw == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uids := make([]string, 0)
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			uids = append(uids, u)
		}
	}
	if len(uids) == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.presenceService.GetMany(c, uids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
