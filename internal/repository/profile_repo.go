package repository

import (
	"Chillz/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepo interface {
	EnsureUser(ctx context.Context, uid string) error
	GetByUID(ctx context.Context, uid string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	GetByUIDs(ctx context.Context, uids []string) ([]*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	UpdateProfile(ctx context.Context, profile *model.Profile) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListDiscoverable(ctx context.Context, excludeUID string, limit int) ([]*model.Profile, error)
}

type ProfileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &ProfileRepoImpl{db: db}
}

// EnsureUser 首次见到某个身份服务用户时落一条骨架记录, 重复调用无副作用
func (s *ProfileRepoImpl) EnsureUser(ctx context.Context, uid string) error {
	user := &model.User{ID: uid}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	return result.Error
}

func (s *ProfileRepoImpl) GetByUID(ctx context.Context, uid string) (*model.Profile, error) {
	profile := &model.Profile{}
	result := s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		First(profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return profile, nil
}

func (s *ProfileRepoImpl) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	profile := &model.Profile{}
	result := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return profile, nil
}

func (s *ProfileRepoImpl) GetByUIDs(ctx context.Context, uids []string) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0)
	result := s.db.WithContext(ctx).
		Where("user_id IN ?", uids).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (s *ProfileRepoImpl) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *ProfileRepoImpl) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	return s.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"display_name": profile.DisplayName,
			"avatar_url":   profile.AvatarURL,
			"bio":          profile.Bio,
			"gender":       profile.Gender,
			"birthday":     profile.Birthday,
			"vibe":         profile.Vibe,
			"discoverable": profile.Discoverable,
		}).Error
}

func (s *ProfileRepoImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("username = ?", username).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ListDiscoverable ES 不可用时发现页的降级查询
func (s *ProfileRepoImpl) ListDiscoverable(ctx context.Context, excludeUID string, limit int) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0)
	result := s.db.WithContext(ctx).
		Where("discoverable = ?", true).
		Where("user_id <> ?", excludeUID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}
