package handler

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/api/middleware"
	"Chillz/internal/pkg/response"
	"Chillz/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me 获取当前用户资料，未建档时返回 onboarded=false
func (s *ProfileHandler) Me(c *gin.Context) {
	uid := middleware.CurrentUID(c)

	profile, err := s.profileService.Me(c, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	if profile == nil {
		response.Success(c, gin.H{"onboarded": false})
		return
	}
	response.Success(c, gin.H{"onboarded": true, "profile": profile})
}

// Setup 首次建档
func (s *ProfileHandler) Setup(c *gin.Context) {
	var req dto.SetupProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.profileService.Setup(c, uid, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Update 修改资料
func (s *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	uid := middleware.CurrentUID(c)
	res, err := s.profileService.Update(c, uid, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// CheckUsername 用户名可用性检查
func (s *ProfileHandler) CheckUsername(c *gin.Context) {
	username := c.Query("u")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.profileService.CheckUsername(c, username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ByUsername 按用户名查公开名片
func (s *ProfileHandler) ByUsername(c *gin.Context) {
	username := c.Query("u")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.profileService.ByUsername(c, username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Discover 发现页用户列表
func (s *ProfileHandler) Discover(c *gin.Context) {
	uid := middleware.CurrentUID(c)

	res, err := s.profileService.Discover(c, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
