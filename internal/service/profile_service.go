package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/model"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/es"
	"Chillz/internal/pkg/kafka"
	"Chillz/internal/pkg/redis"
	"Chillz/internal/pkg/util"
	"Chillz/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// ProfileService 用户资料服务接口定义
type ProfileService interface {
	Me(ctx context.Context, uid string) (*dto.ProfileDTO, error)
	Setup(ctx context.Context, uid string, req *dto.SetupProfileDTO) (*dto.ProfileDTO, error)
	Update(ctx context.Context, uid string, req *dto.UpdateProfileDTO) (*dto.ProfileDTO, error)
	CheckUsername(ctx context.Context, username string) (*dto.CheckUsernameResult, error)
	ByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error)
	Discover(ctx context.Context, uid string) ([]*dto.DiscoverUserDTO, error)
}

type profileServiceImpl struct {
	profileRepo repository.ProfileRepo
	esRepo      es.ProfileRepo
}

func NewProfileService(profileRepo repository.ProfileRepo, esRepo es.ProfileRepo) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		esRepo:      esRepo,
	}
}

// Me 获取当前用户资料。首次访问会落用户骨架记录，
// 未建档时返回 (nil, nil)，由接口层标记 onboarded=false
func (s *profileServiceImpl) Me(ctx context.Context, uid string) (*dto.ProfileDTO, error) {
	if err := s.profileRepo.EnsureUser(ctx, uid); err != nil {
		return nil, ErrStoreUnavailable
	}
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if profile == nil {
		return nil, nil
	}
	return toProfileDTO(profile)
}

// Setup 首次建档
func (s *profileServiceImpl) Setup(ctx context.Context, uid string, req *dto.SetupProfileDTO) (*dto.ProfileDTO, error) {
	existing, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if existing != nil {
		return nil, ErrProfileExist
	}

	username := util.NormalizeUsername(req.Username)
	if !util.IsValidUsername(username) {
		return nil, ErrUsernameInvalid
	}
	taken, err := s.profileRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if taken {
		return nil, ErrUsernameExist
	}

	vibe := consts.VibeDefault
	if req.Vibe != nil && *req.Vibe != "" {
		if _, ok := consts.VibeTags[*req.Vibe]; !ok {
			return nil, ErrVibeInvalid
		}
		vibe = *req.Vibe
	}

	if err := s.profileRepo.EnsureUser(ctx, uid); err != nil {
		return nil, ErrStoreUnavailable
	}

	profile := &model.Profile{
		UserID:       uid,
		Username:     username,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		Gender:       req.Gender,
		Birthday:     req.Birthday,
		Vibe:         vibe,
		Discoverable: true,
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.profileRepo.CreateProfile(ctx, profile); err != nil {
		// 并发建档撞到唯一索引也归为用户名冲突
		return nil, ErrUsernameExist
	}

	s.publishProfile(ctx, uid)
	return toProfileDTO(profile)
}

// Update 修改资料，只覆盖请求中携带的字段。用户名建档后不可改
func (s *profileServiceImpl) Update(ctx context.Context, uid string, req *dto.UpdateProfileDTO) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.Birthday != nil {
		profile.Birthday = req.Birthday
	}
	if req.Vibe != nil {
		if _, ok := consts.VibeTags[*req.Vibe]; !ok {
			return nil, ErrVibeInvalid
		}
		profile.Vibe = *req.Vibe
	}
	if req.Discoverable != nil {
		profile.Discoverable = *req.Discoverable
	}

	if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, ErrStoreUnavailable
	}

	if err := redis.DeleteKey(ctx, consts.UserCardKey+profile.Username); err != nil {
		log.Warn("删除名片缓存失败", "username", profile.Username, "err", err)
	}
	s.publishProfile(ctx, uid)
	return toProfileDTO(profile)
}

// CheckUsername 用户名可用性检查
func (s *profileServiceImpl) CheckUsername(ctx context.Context, username string) (*dto.CheckUsernameResult, error) {
	normalized := util.NormalizeUsername(username)
	if !util.IsValidUsername(normalized) {
		return &dto.CheckUsernameResult{Username: normalized, Available: false}, nil
	}
	taken, err := s.profileRepo.UsernameExists(ctx, normalized)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	return &dto.CheckUsernameResult{Username: normalized, Available: !taken}, nil
}

// ByUsername 按用户名查公开名片，名片走 Redis 短缓存
func (s *profileServiceImpl) ByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error) {
	normalized := util.NormalizeUsername(username)

	cacheKey := consts.UserCardKey + normalized
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		card := &dto.ProfileDTO{}
		if err := json.Unmarshal([]byte(cached), card); err == nil {
			return card, nil
		}
	}

	profile, err := s.profileRepo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	// 公开名片只暴露展示字段
	card := &dto.ProfileDTO{
		UserID:      profile.UserID,
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Vibe:        profile.Vibe,
	}

	if data, err := json.Marshal(card); err == nil {
		if err := redis.SetWithExpiration(ctx, cacheKey, data, time.Minute); err != nil {
			log.Warn("写入名片缓存失败", "username", normalized, "err", err)
		}
	}
	return card, nil
}

// Discover 发现页：优先走 ES，ES 不可用时降级为 SQL 直查
func (s *profileServiceImpl) Discover(ctx context.Context, uid string) ([]*dto.DiscoverUserDTO, error) {
	docs, err := s.esRepo.SearchDiscoverable(ctx, uid, consts.DiscoverLimit)
	if err == nil {
		res := make([]*dto.DiscoverUserDTO, 0, len(docs))
		for _, d := range docs {
			res = append(res, &dto.DiscoverUserDTO{
				UserID:      d.UserID,
				Username:    d.Username,
				DisplayName: d.DisplayName,
				AvatarURL:   d.AvatarURL,
				Vibe:        d.Vibe,
			})
		}
		return res, nil
	}
	log.Warn("发现页 ES 查询失败, 降级为数据库直查", "err", err)

	profiles, err := s.profileRepo.ListDiscoverable(ctx, uid, consts.DiscoverLimit)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	res := make([]*dto.DiscoverUserDTO, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, &dto.DiscoverUserDTO{
			UserID:      p.UserID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			Vibe:        p.Vibe,
		})
	}
	return res, nil
}

// publishProfile 资料写路径发布变更事件，消费侧负责同步进 ES。
// 发布失败只记日志，下次写入会重新触发
func (s *profileServiceImpl) publishProfile(ctx context.Context, uid string) {
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil || profile == nil {
		log.Error("读取资料失败, 跳过事件发布", "uid", uid, "err", err)
		return
	}

	event := &kafka.ProfileEvent{
		Op:     kafka.ProfileOpUpsert,
		UserID: uid,
		Profile: &es.ProfileES{
			UserID:       profile.UserID,
			Username:     profile.Username,
			DisplayName:  profile.DisplayName,
			AvatarURL:    profile.AvatarURL,
			Vibe:         profile.Vibe,
			Discoverable: profile.Discoverable,
			UpdatedAt:    profile.UpdatedAt,
		},
	}
	if err := kafka.PublishProfileEvent(event); err != nil {
		log.Error("发布资料变更事件失败", "uid", uid, "err", err)
	}
}

func toProfileDTO(p *model.Profile) (*dto.ProfileDTO, error) {
	d := &dto.ProfileDTO{}
	if err := copier.Copy(d, p); err != nil {
		return nil, UnExpectedError
	}
	if !p.CreatedAt.IsZero() {
		at := p.CreatedAt
		d.CreatedAt = &at
	}
	if !p.UpdatedAt.IsZero() {
		at := p.UpdatedAt
		d.UpdatedAt = &at
	}
	return d, nil
}
