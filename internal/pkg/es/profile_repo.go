package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

type ProfileRepo interface {
	IndexProfile(ctx context.Context, profile *ProfileES, version int64) error
	DeleteProfile(ctx context.Context, userID string) error
	SearchDiscoverable(ctx context.Context, excludeUID string, limit int) ([]*ProfileES, error)
}

type ProfileRepoImpl struct {
}

func NewProfileRepo() ProfileRepo {
	return &ProfileRepoImpl{}
}

// IndexProfile 以 updated_at 时间戳作为外部版本号写入，旧事件自然被丢弃
func (s *ProfileRepoImpl) IndexProfile(ctx context.Context, profile *ProfileES, version int64) error {
	_, err := Client.Index(ProfileIndex).
		Id(profile.UserID).
		Document(profile).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				log.Warn("Version conflict detected, skipping old data",
					"user_id", profile.UserID,
					"version", version)
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *ProfileRepoImpl) DeleteProfile(ctx context.Context, userID string) error {
	_, err := Client.Delete(ProfileIndex, userID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.Warn("Profile already deleted or not found in ES", "user_id", userID)
				return nil
			}
		}
		return err
	}
	return nil
}

// SearchDiscoverable 发现页查询：可被发现的用户，排除自己，最近更新优先
func (s *ProfileRepoImpl) SearchDiscoverable(ctx context.Context, excludeUID string, limit int) ([]*ProfileES, error) {
	boolQuery := &types.BoolQuery{
		Filter: []types.Query{
			{Term: map[string]types.TermQuery{"discoverable": {Value: true}}},
		},
		MustNot: []types.Query{
			{Term: map[string]types.TermQuery{"user_id": {Value: excludeUID}}},
		},
	}

	res, err := Client.Search().
		Index(ProfileIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"updated_at": {Order: &sortorder.Desc},
		}}).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*ProfileES, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p ProfileES
		if err := json.Unmarshal(hit.Source_, &p); err != nil {
			log.Warn("Failed to decode profile hit", "err", err)
			continue
		}
		profiles = append(profiles, &p)
	}
	return profiles, nil
}
