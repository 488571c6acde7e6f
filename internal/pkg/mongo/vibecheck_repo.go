package mongo

import (
	"Chillz/internal/pkg/consts"
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VibeCheckRepo interface {
	Get(ctx context.Context, checkID string) (*VibeCheck, error)
	Put(ctx context.Context, check *VibeCheck) error
	UpdateStatus(ctx context.Context, checkID, fromStatus, toStatus string) (bool, error)
	ListPendingInbox(ctx context.Context, toUID string) ([]*VibeCheck, error)
	ListPendingOutbox(ctx context.Context, fromUID string) ([]*VibeCheck, error)
}

type vibeCheckRepoImpl struct {
	col *mongo.Collection
}

func NewVibeCheckRepo(db *mongo.Database) VibeCheckRepo {
	return &vibeCheckRepoImpl{col: db.Collection(ColVibeChecks)}
}

// Get 点查请求，不存在时返回 (nil, nil)
func (s *vibeCheckRepoImpl) Get(ctx context.Context, checkID string) (*VibeCheck, error) {
	var check VibeCheck
	err := s.col.FindOne(ctx, bson.M{"_id": checkID}).Decode(&check)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get vibe check")
	}
	return &check, nil
}

// Put 在确定性 ID 上整体覆盖写入（重发覆盖而非新增）
func (s *vibeCheckRepoImpl) Put(ctx context.Context, check *VibeCheck) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": check.ID}, check, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "put vibe check")
}

// UpdateStatus 带前置状态条件的状态迁移，返回是否命中。
// 状态机只允许 pending→accepted / pending→declined，靠过滤条件保证单向
func (s *vibeCheckRepoImpl) UpdateStatus(ctx context.Context, checkID, fromStatus, toStatus string) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": checkID, "status": fromStatus},
		bson.M{"$set": bson.M{"status": toStatus}},
	)
	if err != nil {
		return false, errors.Wrap(err, "update vibe check status")
	}
	return res.MatchedCount > 0, nil
}

// ListPendingInbox 收件箱：发给我的待处理请求，按创建时间倒序
func (s *vibeCheckRepoImpl) ListPendingInbox(ctx context.Context, toUID string) ([]*VibeCheck, error) {
	return s.list(ctx, bson.M{"to_uid": toUID, "status": consts.VibeCheckPending})
}

// ListPendingOutbox 发件箱：我发出的待处理请求（用于"已发送"状态渲染）
func (s *vibeCheckRepoImpl) ListPendingOutbox(ctx context.Context, fromUID string) ([]*VibeCheck, error) {
	return s.list(ctx, bson.M{"from_uid": fromUID, "status": consts.VibeCheckPending})
}

func (s *vibeCheckRepoImpl) list(ctx context.Context, filter bson.M) ([]*VibeCheck, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "list vibe checks")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var checks []*VibeCheck
	if err := cursor.All(ctx, &checks); err != nil {
		return nil, errors.Wrap(err, "decode vibe checks")
	}
	return checks, nil
}
